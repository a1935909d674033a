package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/reconbattery/pos/internal/catalog"
	catalogStore "github.com/reconbattery/pos/internal/catalog/store"
	"github.com/reconbattery/pos/internal/config"
	"github.com/reconbattery/pos/internal/database"
	"github.com/reconbattery/pos/internal/export"
	posHttp "github.com/reconbattery/pos/internal/http"
	exportHandler "github.com/reconbattery/pos/internal/http/export"
	importHandler "github.com/reconbattery/pos/internal/http/importcsv"
	productHandler "github.com/reconbattery/pos/internal/http/product"
	saleHandler "github.com/reconbattery/pos/internal/http/sale"
	settingsHandler "github.com/reconbattery/pos/internal/http/settings"
	"github.com/reconbattery/pos/internal/importer"
	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/money"
	"github.com/reconbattery/pos/internal/sale"
	saleStore "github.com/reconbattery/pos/internal/sale/store"
	"github.com/reconbattery/pos/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	taxRate, err := money.Parse(cfg.Tax.RatePercent)
	if err != nil {
		slog.Error("invalid tax rate", "error", err)
		os.Exit(1)
	}

	settingsStore, err := settings.New(taxRate)
	if err != nil {
		slog.Error("invalid tax rate", "error", err)
		os.Exit(1)
	}

	hub := live.NewHub()

	var (
		catalogService = catalog.NewService(catalogStore.New(db, hub))
		saleService    = sale.NewService(saleStore.New(db, hub))
		importService  = importer.NewService()
		exportService  = export.NewService(catalogService, saleService)
	)

	if cfg.Catalog.Seed {
		if err := catalogService.SeedDefaults(ctx); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	var (
		productH  = productHandler.NewHandler(catalogService)
		saleH     = saleHandler.NewHandler(saleService)
		settingsH = settingsHandler.NewHandler(settingsStore)
		exportH   = exportHandler.NewHandler(exportService)
		importH   = importHandler.NewHandler(importService, catalogService)
	)

	router := posHttp.New(productH, saleH, settingsH, exportH, importH, cfg.Auth.Secret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
