package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/reconbattery/pos/cmd/tui/internal/view"
	"github.com/reconbattery/pos/internal/catalog"
	catalogStore "github.com/reconbattery/pos/internal/catalog/store"
	"github.com/reconbattery/pos/internal/config"
	"github.com/reconbattery/pos/internal/database"
	"github.com/reconbattery/pos/internal/export"
	"github.com/reconbattery/pos/internal/importer"
	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/money"
	"github.com/reconbattery/pos/internal/receipt"
	"github.com/reconbattery/pos/internal/register"
	"github.com/reconbattery/pos/internal/sale"
	saleStore "github.com/reconbattery/pos/internal/sale/store"
	"github.com/reconbattery/pos/internal/settings"
)

type model struct {
	controller      *register.Controller
	catalogService  *catalog.Service
	saleService     *sale.Service
	settingsStore   *settings.Store
	importService   *importer.Service
	exportService   *export.Service
	gateway         *view.DialogGateway
	productsChanged <-chan struct{}
	salesChanged    <-chan struct{}

	currentView View
	dialog      *view.DialogModel

	registerView view.RegisterModel
	productView  view.ProductModel
	salesView    view.SalesModel
	importView   view.ImportModel
	exportView   view.ExportModel
	settingsView view.SettingsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewRegister View = 1
	ViewProducts View = 2
	ViewSales    View = 3
	ViewImport   View = 4
	ViewExport   View = 5
	ViewSettings View = 6
)

func initialModel() model {
	_ = godotenv.Load()

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

	catSvc := catalog.NewService(catalogStore.New(db, hub))
	saleSvc := sale.NewService(saleStore.New(db, hub))
	impSvc := importer.NewService()
	expSvc := export.NewService(catSvc, saleSvc)

	if cfg.Catalog.Seed {
		if err := catSvc.SeedDefaults(ctx); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	gateway := view.NewDialogGateway()
	printer := receipt.NewFilePrinter(cfg.Receipt.SpoolDir, cfg.App.Name)
	ctrl := register.New(saleSvc, catSvc, settingsStore, gateway, printer)

	productsCh, _ := hub.Subscribe(live.TableProducts)
	salesCh, _ := hub.Subscribe(live.TableSales)

	return model{
		controller:      ctrl,
		catalogService:  catSvc,
		saleService:     saleSvc,
		settingsStore:   settingsStore,
		importService:   impSvc,
		exportService:   expSvc,
		gateway:         gateway,
		productsChanged: productsCh,
		salesChanged:    salesCh,
		currentView:     ViewMenu,
		registerView:    view.NewRegisterModel(ctrl, catSvc, settingsStore),
		productView:     view.NewProductModel(catSvc),
		salesView:       view.NewSalesModel(saleSvc, ctrl, gateway),
		importView:      view.NewImportModel(catSvc, impSvc),
		exportView:      view.NewExportModel(expSvc),
		settingsView:    view.NewSettingsModel(settingsStore),
	}
}

func watchTable(table string, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return view.StoreChangedMsg{Table: table}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.gateway.Await(),
		watchTable(live.TableProducts, m.productsChanged),
		watchTable(live.TableSales, m.salesChanged),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case view.DialogPromptMsg:
		d := view.NewDialogModel(msg)
		m.dialog = &d

		return m, nil

	case view.StoreChangedMsg:
		// Re-arm the watcher; the active view handles the refresh below.
		switch msg.Table {
		case live.TableProducts:
			cmds = append(cmds, watchTable(live.TableProducts, m.productsChanged))
		case live.TableSales:
			cmds = append(cmds, watchTable(live.TableSales, m.salesChanged))
		}

	case view.SaleLoadedMsg:
		m.currentView = ViewRegister
		m.registerView = view.NewRegisterModel(m.controller, m.catalogService, m.settingsStore)

		return m, m.registerView.Init()

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case tea.KeyMsg:
		// An open dialog captures all keys until it resolves.
		if m.dialog != nil {
			d, resolved := m.dialog.Update(msg)
			if resolved {
				m.dialog = nil
				return m, m.gateway.Await()
			}

			m.dialog = &d

			return m, nil
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewRegister
				return m, m.registerView.Init()
			case "2":
				m.currentView = ViewProducts
				m.productView = view.NewProductModel(m.catalogService)

				return m, m.productView.Init()
			case "3":
				m.currentView = ViewSales
				m.salesView = view.NewSalesModel(m.saleService, m.controller, m.gateway)

				return m, m.salesView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.catalogService, m.importService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			case "6":
				m.currentView = ViewSettings
				m.settingsView = view.NewSettingsModel(m.settingsStore)

				return m, m.settingsView.Init()
			}
		}
	}

	var cmd tea.Cmd

	switch m.currentView {
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productView.Update(msg)
		m.productView = newModel.(view.ProductModel)
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewSettings:
		var newModel tea.Model
		newModel, cmd = m.settingsView.Update(msg)
		m.settingsView = newModel.(view.SettingsModel)
	}

	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.dialog != nil {
		return lipgloss.NewStyle().Padding(2).Render(m.dialog.View())
	}

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"POS Register\n\n" +
				"1. Register\n" +
				"2. Products\n" +
				"3. Sales\n" +
				"4. Import Products\n" +
				"5. Export Data\n" +
				"6. Settings\n\n" +
				"q. Quit",
		)
	case ViewRegister:
		return m.registerView.View()
	case ViewProducts:
		return m.productView.View()
	case ViewSales:
		return m.salesView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewSettings:
		return m.settingsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
