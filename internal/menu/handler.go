package menu

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Handler serves the cached sidebar menu.
type Handler struct {
	logger    *slog.Logger
	assembler *Assembler
	gate      *authz.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, assembler *Assembler, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, assembler: assembler, gate: gate}
}

// MountRoutes registers menu routes. The payload is already rights-filtered,
// so the only requirement is an authenticated caller.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuthenticated)
		r.Get("/", h.getMenu)
		r.Post("/refresh", h.refresh)
	})
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	view, err := h.assembler.BuildMenu(r.Context(), id.TenantID, id.UserID)
	if err != nil {
		h.logger.Error("build menu", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: menu unavailable", httpx.ErrTransient))
		return
	}
	// The ETag mirrors the server-owned rights version; clients may use it
	// as a hint but it never drives cache correctness.
	etag := fmt.Sprintf(`"v%d"`, view.Version)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.assembler.Refresh(r.Context(), id.TenantID, id.UserID); err != nil {
		h.logger.Error("refresh menu", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: refresh failed", httpx.ErrTransient))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
