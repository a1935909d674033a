package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reconbattery/pos/internal/http/auth"
	exportHandler "github.com/reconbattery/pos/internal/http/export"
	"github.com/reconbattery/pos/internal/http/importcsv"
	productHandler "github.com/reconbattery/pos/internal/http/product"
	saleHandler "github.com/reconbattery/pos/internal/http/sale"
	settingsHandler "github.com/reconbattery/pos/internal/http/settings"
)

func New(
	productsV1 *productHandler.Handler,
	salesV1 *saleHandler.Handler,
	settingsV1 *settingsHandler.Handler,
	exportV1 *exportHandler.Handler,
	importV1 *importcsv.Handler,
	authSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			productsV1.Routes(r)
		})

		r.Route("/sales", salesV1.Routes)

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)

		r.Route("/import", importV1.Routes)
	})

	return router
}
