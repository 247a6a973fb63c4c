package kitchens

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	mdshared "github.com/caterline-erp/caterline-erp/internal/masterdata/shared"
	"github.com/caterline-erp/caterline-erp/internal/platform/httpx"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    *authz.Gate
}

func NewHandler(logger *slog.Logger, service *Service, gate *authz.Gate) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecKitchenAreasView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecKitchenAreasAdd))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecKitchenAreasEdit))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecKitchenAreasDelete))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := shared.IdentityFromContext(r.Context())
	areas, err := h.service.List(r.Context(), id.TenantID)
	if err != nil {
		h.logger.Error("list kitchen areas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"kitchenAreas": areas})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	areaID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid kitchen area id", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	area, err := h.service.Get(r.Context(), id.TenantID, areaID)
	if err != nil {
		if errors.Is(err, mdshared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, area)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var area KitchenArea
	if err := httpx.DecodeJSON(r, &area); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	created, err := h.service.Create(r.Context(), id.TenantID, area)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	areaID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid kitchen area id", httpx.ErrValidation))
		return
	}
	var area KitchenArea
	if err := httpx.DecodeJSON(r, &area); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.Update(r.Context(), id.TenantID, areaID, area); err != nil {
		if errors.Is(err, mdshared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	areaID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid kitchen area id", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id.TenantID, areaID); err != nil {
		if errors.Is(err, mdshared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("delete kitchen area", slog.Int64("id", areaID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
