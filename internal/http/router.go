package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dcastro/payable/internal/http/invoice"
	"github.com/dcastro/payable/internal/http/payment"
)

func New(
	invoicesV1 *invoice.Handler,
	paymentsV1 *payment.Handler,
	jwtSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		// Auth is opt-in: without a configured secret the API is open,
		// matching local development use.
		if jwtSecret != "" {
			r.Use(requireAuth(jwtSecret))
		}

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/payments", paymentsV1.Routes)
	})

	return router
}
