package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/shared"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
)

type fakeGrantStore struct {
	snapshot authz.Snapshot
}

func (f *fakeGrantStore) Grant(ctx context.Context, tenantID, userID int64, module string) (authz.Rights, error) {
	return f.snapshot[module], nil
}

func (f *fakeGrantStore) Snapshot(ctx context.Context, tenantID, userID int64) (authz.Snapshot, error) {
	return f.snapshot, nil
}

func newTestAssembler(t *testing.T, store *fakeGrantStore) (*Assembler, *authz.Versions) {
	t.Helper()
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	versions := authz.NewVersions(client)
	cache := viewcache.New(32, time.Minute)
	return NewAssembler(catalog, authz.NewEvaluator(store), versions, cache), versions
}

func TestEmbeddedReportCatalogValidates(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	codes := append(shared.CoreModules(), shared.CateringModules()...)
	modules, err := authz.NewCatalog(codes...)
	if err != nil {
		t.Fatalf("module catalog: %v", err)
	}
	if err := catalog.Validate(modules); err != nil {
		t.Fatalf("embedded catalog must validate: %v", err)
	}
	if len(catalog.All()) == 0 {
		t.Fatalf("embedded catalog must declare reports")
	}
}

func TestBuildReportRightsFiltersByView(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{
		"GODOWN":   authz.RightsOf(authz.ActionView, authz.ActionPrint),
		"VOUCHERS": authz.RightsOf(authz.ActionAdd),
	}}
	assembler, _ := newTestAssembler(t, store)

	view, err := assembler.BuildReportRights(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("build report rights: %v", err)
	}
	if len(view.ReportIDs) != 1 || view.ReportIDs[0] != "RPT-GODOWN-STOCK" {
		t.Fatalf("only the godown report is visible with VIEW, got %v", view.ReportIDs)
	}
}

func TestBuildReportRightsEmptyForNoGrants(t *testing.T) {
	assembler, _ := newTestAssembler(t, &fakeGrantStore{snapshot: authz.Snapshot{}})
	view, err := assembler.BuildReportRights(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("build report rights: %v", err)
	}
	if len(view.ReportIDs) != 0 {
		t.Fatalf("expected no visible reports, got %v", view.ReportIDs)
	}
}

func TestVersionBumpInvalidatesReportRights(t *testing.T) {
	store := &fakeGrantStore{snapshot: authz.Snapshot{}}
	assembler, versions := newTestAssembler(t, store)
	ctx := context.Background()

	before, err := assembler.BuildReportRights(ctx, 1, 7)
	if err != nil {
		t.Fatalf("build report rights: %v", err)
	}
	if len(before.ReportIDs) != 0 {
		t.Fatalf("expected empty list, got %v", before.ReportIDs)
	}

	store.snapshot = authz.Snapshot{"VOUCHERS": authz.RightsOf(authz.ActionView)}
	if _, err := versions.Bump(ctx, 1, 7); err != nil {
		t.Fatalf("bump: %v", err)
	}

	after, err := assembler.BuildReportRights(ctx, 1, 7)
	if err != nil {
		t.Fatalf("build report rights: %v", err)
	}
	if len(after.ReportIDs) != 1 || after.ReportIDs[0] != "RPT-VOUCHER-DAYBOOK" {
		t.Fatalf("new grant must surface the voucher report, got %v", after.ReportIDs)
	}
}
