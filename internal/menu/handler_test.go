package menu

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

func newTestHandler(t *testing.T, store *fakeGrantStore) (*Handler, *authz.Versions) {
	t.Helper()
	assembler, versions := newTestAssembler(t, store)
	gate := authz.NewGate(authz.NewEvaluator(store), slog.Default(), nil)
	return NewHandler(slog.Default(), assembler, gate), versions
}

func mountTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/menu", h.MountRoutes)
	return r
}

func authedMenuRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := shared.ContextWithIdentity(req.Context(), shared.Identity{TenantID: 1, UserID: 7})
	return req.WithContext(ctx)
}

func TestGetMenuReturnsViewWithETag(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	h, _ := newTestHandler(t, store)
	router := mountTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedMenuRequest(http.MethodGet, "/menu/"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("ETag"); got != `"v0"` {
		t.Fatalf("unexpected etag %q", got)
	}

	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ID != "dashboard" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestGetMenuHonoursIfNoneMatch(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	h, _ := newTestHandler(t, store)
	router := mountTestRouter(h)

	req := authedMenuRequest(http.MethodGet, "/menu/")
	req.Header.Set("If-None-Match", `"v0"`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestGetMenuETagChangesAfterBump(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	h, versions := newTestHandler(t, store)
	router := mountTestRouter(h)

	if _, err := versions.Bump(context.Background(), 1, 7); err != nil {
		t.Fatalf("bump: %v", err)
	}

	req := authedMenuRequest(http.MethodGet, "/menu/")
	req.Header.Set("If-None-Match", `"v0"`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stale etag must re-serve the view, got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got != `"v1"` {
		t.Fatalf("unexpected etag %q", got)
	}
}

func TestMenuRequiresAuthentication(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{}}
	h, _ := newTestHandler(t, store)
	router := mountTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshMenu(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	h, _ := newTestHandler(t, store)
	router := mountTestRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedMenuRequest(http.MethodPost, "/menu/refresh"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
