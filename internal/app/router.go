package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/harborline/harborline/internal/auth"
	"github.com/harborline/harborline/internal/bookings"
	"github.com/harborline/harborline/internal/dashboard"
	"github.com/harborline/harborline/internal/observability"
	"github.com/harborline/harborline/internal/ports"
	"github.com/harborline/harborline/internal/quotations"
	"github.com/harborline/harborline/internal/rates"
	"github.com/harborline/harborline/internal/rbac"
	"github.com/harborline/harborline/internal/schedules"
	"github.com/harborline/harborline/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	AuthHandler       *auth.Handler
	QuotationsHandler *quotations.Handler
	BookingsHandler   *bookings.Handler
	RatesHandler      *rates.Handler
	SchedulesHandler  *schedules.Handler
	PortsHandler      *ports.Handler
	DashboardHandler  *dashboard.Handler
	RBACMiddleware    rbac.Middleware
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Harborline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// A fresh session needs the CSRF token before its first mutating call.
	r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("issue csrf token", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"` + token + `"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/quotations", func(r chi.Router) {
		params.QuotationsHandler.MountRoutes(r, params.RBACMiddleware)
	})
	r.Route("/bookings", func(r chi.Router) {
		params.BookingsHandler.MountRoutes(r, params.RBACMiddleware)
	})
	r.Route("/rates", params.RatesHandler.MountRoutes)
	r.Route("/schedules", params.SchedulesHandler.MountRoutes)
	r.Route("/ports", params.PortsHandler.MountRoutes)
	r.Route("/dashboard", func(r chi.Router) {
		params.DashboardHandler.MountRoutes(r, params.RBACMiddleware)
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
