package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Handler serves the report-rights view and rendered report documents.
type Handler struct {
	logger    *slog.Logger
	assembler *Assembler
	service   *Service
	gate      *authz.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, assembler *Assembler, service *Service, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, assembler: assembler, service: service, gate: gate}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAuthenticated)
		r.Get("/rights", h.getRights)
		r.Post("/rights/refresh", h.refreshRights)
		r.Get("/{id}/pdf", h.renderPDF)
	})
}

func (h *Handler) getRights(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	view, err := h.assembler.BuildReportRights(r.Context(), id.TenantID, id.UserID)
	if err != nil {
		h.logger.Error("build report rights", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: report rights unavailable", httpx.ErrTransient))
		return
	}
	etag := fmt.Sprintf(`"v%d"`, view.Version)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) refreshRights(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.assembler.Refresh(r.Context(), id.TenantID, id.UserID); err != nil {
		h.logger.Error("refresh report rights", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: refresh failed", httpx.ErrTransient))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renderPDF(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	def, ok := h.service.catalog.Get(reportID)
	if !ok {
		httpx.RespondError(w, fmt.Errorf("%w: report %s", httpx.ErrNotFound, reportID))
		return
	}
	// Printing demands VIEW and PRINT on the module backing the report.
	spec := authz.RequireAll(
		authz.Cap(def.Module, authz.ActionView),
		authz.Cap(def.Module, authz.ActionPrint),
	)
	decision, err := h.gate.Check(r.Context(), spec)
	if err != nil {
		if errors.Is(err, authz.ErrUnauthenticated) {
			httpx.RespondError(w, httpx.ErrUnauthenticated)
			return
		}
		h.logger.Error("report authz check", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if !decision.Allowed() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", spec.Describe())
		return
	}

	pdf, def, err := h.service.Render(r.Context(), reportID)
	if err != nil {
		h.logger.Error("render report", slog.String("report", reportID), slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: report render failed", httpx.ErrTransient))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", def.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
