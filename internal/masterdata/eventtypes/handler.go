package eventtypes

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
		r.Use(h.gate.Require(authz.SpecEventTypesView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecEventTypesAdd))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecEventTypesEdit))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require(authz.SpecEventTypesDelete))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := mdshared.ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
	id, _ := shared.IdentityFromContext(r.Context())
	types, total, err := h.service.List(r.Context(), id.TenantID, filters)
	if err != nil {
		h.logger.Error("list event types", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"eventTypes": types,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	etID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid event type id", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	et, err := h.service.Get(r.Context(), id.TenantID, etID)
	if err != nil {
		if errors.Is(err, mdshared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("get event type", slog.Int64("id", etID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, et)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var et EventType
	if err := httpx.DecodeJSON(r, &et); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	created, err := h.service.Create(r.Context(), id.TenantID, et)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	etID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid event type id", httpx.ErrValidation))
		return
	}
	var et EventType
	if err := httpx.DecodeJSON(r, &et); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.Update(r.Context(), id.TenantID, etID, et); err != nil {
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
	etID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid event type id", httpx.ErrValidation))
		return
	}
	id, _ := shared.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id.TenantID, etID); err != nil {
		if errors.Is(err, mdshared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("delete event type", slog.Int64("id", etID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
