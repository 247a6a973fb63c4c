package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/caterline-erp/caterline-erp/internal/masterdata/eventtypes"
	"github.com/caterline-erp/caterline-erp/internal/masterdata/kitchens"
	"github.com/caterline-erp/caterline-erp/internal/menu"
	"github.com/caterline-erp/caterline-erp/internal/observability"
	"github.com/caterline-erp/caterline-erp/internal/procurement"
	"github.com/caterline-erp/caterline-erp/internal/reports"
	"github.com/caterline-erp/caterline-erp/internal/rights"
	"github.com/caterline-erp/caterline-erp/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	MenuHandler        *menu.Handler
	ReportsHandler     *reports.Handler
	RightsHandler      *rights.Handler
	UsersHandler       *users.Handler
	EventTypesHandler  *eventtypes.Handler
	KitchensHandler    *kitchens.Handler
	ProcurementHandler *procurement.Handler
}

// NewRouter constructs the chi.Router with Caterline defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/menu", params.MenuHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	r.Route("/admin/rights", params.RightsHandler.MountRoutes)
	r.Route("/admin/users", params.UsersHandler.MountRoutes)
	if params.EventTypesHandler != nil {
		r.Route("/masterdata/event-types", params.EventTypesHandler.MountRoutes)
	}
	if params.KitchensHandler != nil {
		r.Route("/masterdata/kitchen-areas", params.KitchensHandler.MountRoutes)
	}
	if params.ProcurementHandler != nil {
		r.Route("/procurement/purchase-orders", params.ProcurementHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
