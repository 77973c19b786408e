package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/merchantops/paytm-gateway/internal/audit"
	"github.com/merchantops/paytm-gateway/internal/order"
	"github.com/merchantops/paytm-gateway/internal/payment"
	"github.com/merchantops/paytm-gateway/internal/refund"
	"github.com/merchantops/paytm-gateway/internal/transport/middleware"
	"github.com/merchantops/paytm-gateway/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, apiSecret string, paymentHandler *payment.Handler, refundHandler *refund.Handler, orderHandler *order.Handler, auditHandler *audit.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Protected routes: everything touching the gateway
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.APIAuth(apiSecret))

			if paymentHandler != nil {
				pr.Route("/payment-links", func(lr chi.Router) {
					lr.Post("/", paymentHandler.CreateLink)                               // POST /payment-links
					lr.Get("/", paymentHandler.ListLinks)                                 // GET /payment-links
					lr.Get("/{linkID}/transactions", paymentHandler.ListLinkTransactions) // GET /payment-links/:id/transactions
				})
			}

			if refundHandler != nil {
				pr.Route("/refunds", func(rr chi.Router) {
					rr.Post("/", refundHandler.Initiate)    // POST /refunds
					rr.Get("/", refundHandler.List)         // GET /refunds
					rr.Get("/status", refundHandler.Status) // GET /refunds/status
				})
			}

			if orderHandler != nil {
				pr.Get("/orders", orderHandler.List) // GET /orders
			}

			if auditHandler != nil {
				pr.Route("/audit", func(ar chi.Router) {
					ar.Get("/operations", auditHandler.ListByOperation)
					ar.Get("/references/{reference}", auditHandler.ListByReference)
				})
			}
		})
	})
}
