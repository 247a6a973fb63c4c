package menu

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
)

type fakeGrantStore struct {
	snapshot authz.Snapshot
	loads    int32
}

func (f *fakeGrantStore) Grant(ctx context.Context, tenantID, userID int64, module string) (authz.Rights, error) {
	return f.snapshot[module], nil
}

func (f *fakeGrantStore) Snapshot(ctx context.Context, tenantID, userID int64) (authz.Snapshot, error) {
	atomic.AddInt32(&f.loads, 1)
	return f.snapshot, nil
}

func testCatalogYAML() []byte {
	return []byte(`
nodes:
  - id: dashboard
    module: DASHBOARD
    path: /
    order: 1
  - id: masterdata
    label: Master Data
    order: 2
    children:
      - id: event-types
        module: EVENT_TYPES
        path: /masterdata/event-types
      - id: kitchen-areas
        module: KITCHEN_AREAS
        path: /masterdata/kitchen-areas
  - id: finance
    label: Finance
    order: 3
    children:
      - id: vouchers
        module: VOUCHERS
        path: /finance/vouchers
`)
}

func newTestAssembler(t *testing.T, store *fakeGrantStore) (*Assembler, *authz.Versions) {
	t.Helper()
	catalog, err := ParseCatalog(testCatalogYAML())
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	versions := authz.NewVersions(client)
	cache := viewcache.New(32, time.Minute)
	return NewAssembler(catalog, authz.NewEvaluator(store), versions, cache), versions
}

func TestBuildMenuPrunesInvisibleNodes(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{
		"DASHBOARD":   authz.RightsOf(authz.ActionView),
		"EVENT_TYPES": authz.RightsOf(authz.ActionView, authz.ActionAdd, authz.ActionEdit),
	}}
	assembler, _ := newTestAssembler(t, store)

	view, err := assembler.BuildMenu(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("build menu: %v", err)
	}
	if view.Version != 0 {
		t.Fatalf("fresh user must see version 0, got %d", view.Version)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected dashboard and masterdata, got %d items", len(view.Items))
	}
	if view.Items[0].ID != "dashboard" {
		t.Fatalf("first item %q", view.Items[0].ID)
	}

	group := view.Items[1]
	if group.ID != "masterdata" {
		t.Fatalf("second item %q", group.ID)
	}
	if group.Rights != nil {
		t.Fatalf("group node must carry no rights annotation")
	}
	if len(group.Children) != 1 || group.Children[0].ID != "event-types" {
		t.Fatalf("kitchen-areas lacks VIEW and must be pruned, got %+v", group.Children)
	}
	wantRights := []string{"VIEW", "ADD", "EDIT"}
	gotRights := group.Children[0].Rights
	if len(gotRights) != len(wantRights) {
		t.Fatalf("rights %v, want %v", gotRights, wantRights)
	}
	for i := range wantRights {
		if gotRights[i] != wantRights[i] {
			t.Fatalf("rights %v, want %v", gotRights, wantRights)
		}
	}
}

func TestBuildMenuForUserWithoutGrants(t *testing.T) {
	assembler, _ := newTestAssembler(t, &fakeGrantStore{snapshot: authz.Snapshot{}})
	view, err := assembler.BuildMenu(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("build menu: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("no grants means empty menu, got %+v", view.Items)
	}
}

func TestBuildMenuServesFromCache(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	assembler, _ := newTestAssembler(t, store)

	for i := 0; i < 3; i++ {
		if _, err := assembler.BuildMenu(context.Background(), 1, 7); err != nil {
			t.Fatalf("build menu: %v", err)
		}
	}
	if loads := atomic.LoadInt32(&store.loads); loads != 1 {
		t.Fatalf("snapshot loaded %d times, want 1", loads)
	}
}

func TestVersionBumpInvalidatesCachedMenu(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{"DASHBOARD": authz.RightsOf(authz.ActionView)}}
	assembler, versions := newTestAssembler(t, store)
	ctx := context.Background()

	before, err := assembler.BuildMenu(ctx, 1, 7)
	if err != nil {
		t.Fatalf("build menu: %v", err)
	}

	// Grants change and the version is bumped after commit.
	store.snapshot = authz.Snapshot{
		"DASHBOARD": authz.RightsOf(authz.ActionView),
		"VOUCHERS":  authz.RightsOf(authz.ActionView),
	}
	if _, err := versions.Bump(ctx, 1, 7); err != nil {
		t.Fatalf("bump: %v", err)
	}

	after, err := assembler.BuildMenu(ctx, 1, 7)
	if err != nil {
		t.Fatalf("build menu: %v", err)
	}
	if after.Version != before.Version+1 {
		t.Fatalf("version %d, want %d", after.Version, before.Version+1)
	}
	if len(after.Items) != 2 {
		t.Fatalf("new grants must be visible immediately, got %+v", after.Items)
	}
	if atomic.LoadInt32(&store.loads) != 2 {
		t.Fatalf("bump must force a recompute")
	}
}
