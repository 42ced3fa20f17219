package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pmcouto/centavo/internal/http/category"
	"github.com/pmcouto/centavo/internal/http/dashboard"
	"github.com/pmcouto/centavo/internal/http/importcsv"
	"github.com/pmcouto/centavo/internal/http/recurring"
	"github.com/pmcouto/centavo/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	recurringV1 *recurring.Handler,
	categoriesV1 *category.Handler,
	dashboardV1 *dashboard.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/recurring", func(r chi.Router) {
			recurringV1.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
