package rights

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

// Handler exposes rights-management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *authz.Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers rights routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecRightsView))
		r.Get("/users/{userID}", h.getUserRights)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecRightsEdit))
		r.Put("/users/{userID}", h.replaceUserRights)
	})
}

func (h *Handler) getUserRights(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid user id", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	rights, err := h.service.Get(r.Context(), id.TenantID, userID)
	if err != nil {
		h.logger.Error("get user rights", slog.Int64("user", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rights)
}

func (h *Handler) replaceUserRights(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid user id", httpx.ErrValidation))
		return
	}
	var input ReplaceInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	version, err := h.service.Replace(r.Context(), id.TenantID, userID, input, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.logger.Error("replace user rights", slog.Int64("user", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"userId": userID, "version": version})
}
