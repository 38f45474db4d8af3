package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/dashboard"
	"github.com/stockroom/stockroom/internal/masterdata/links"
	"github.com/stockroom/stockroom/internal/masterdata/products"
	"github.com/stockroom/stockroom/internal/masterdata/suppliers"
	"github.com/stockroom/stockroom/internal/sales/customers"
	"github.com/stockroom/stockroom/internal/sales/orders"
	"github.com/stockroom/stockroom/internal/sales/payments"
	"github.com/stockroom/stockroom/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *auth.SessionManager

	AuthHandler      *auth.Handler
	OrdersHandler    *orders.Handler
	PaymentsHandler  *payments.Handler
	CustomersHandler *customers.Handler
	ProductsHandler  *products.Handler
	SuppliersHandler *suppliers.Handler
	LinksHandler     *links.Handler
	DashboardHandler *dashboard.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with gateway defaults. Everything
// under /api requires an authenticated session; /auth and /healthz do not.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireAuth)
		params.OrdersHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.ProductsHandler.MountRoutes(r)
		params.SuppliersHandler.MountRoutes(r)
		params.LinksHandler.MountRoutes(r)
		params.DashboardHandler.MountRoutes(r)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
