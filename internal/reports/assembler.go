package reports

import (
	"context"
	"fmt"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
)

// RightsView is the cached list of report IDs a user may see.
type RightsView struct {
	Version   int64    `json:"version"`
	ReportIDs []string `json:"reportIds"`
}

// Assembler builds the permitted-report list through the versioned cache.
type Assembler struct {
	catalog   *Catalog
	evaluator *authz.Evaluator
	versions  *authz.Versions
	cache     *viewcache.Cache
}

// NewAssembler wires the assembler.
func NewAssembler(catalog *Catalog, evaluator *authz.Evaluator, versions *authz.Versions, cache *viewcache.Cache) *Assembler {
	return &Assembler{catalog: catalog, evaluator: evaluator, versions: versions, cache: cache}
}

// BuildReportRights returns the report IDs visible to the caller, cached per
// rights version.
func (a *Assembler) BuildReportRights(ctx context.Context, tenantID, userID int64) (RightsView, error) {
	version, err := a.versions.Current(ctx, tenantID, userID)
	if err != nil {
		return RightsView{}, err
	}
	key := viewcache.Key{TenantID: tenantID, UserID: userID, Kind: viewcache.KindReportRights, Version: version}
	v, err := a.cache.GetOrCompute(ctx, key, func(ctx context.Context) (any, error) {
		return a.assemble(ctx, tenantID, userID, version)
	})
	if err != nil {
		return RightsView{}, err
	}
	view, ok := v.(RightsView)
	if !ok {
		return RightsView{}, fmt.Errorf("reports: unexpected cache payload %T", v)
	}
	return view, nil
}

// Refresh drops the cached list for the caller's current version.
func (a *Assembler) Refresh(ctx context.Context, tenantID, userID int64) error {
	version, err := a.versions.Current(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	a.cache.Evict(viewcache.Key{TenantID: tenantID, UserID: userID, Kind: viewcache.KindReportRights, Version: version})
	return nil
}

// assemble walks the catalog once against a single grant snapshot. A report
// is visible iff the caller holds VIEW on its module.
func (a *Assembler) assemble(ctx context.Context, tenantID, userID, version int64) (RightsView, error) {
	snapshot, err := a.evaluator.Snapshot(ctx, tenantID, userID)
	if err != nil {
		return RightsView{}, err
	}
	ids := make([]string, 0, len(a.catalog.All()))
	for _, def := range a.catalog.All() {
		if snapshot[def.Module].Has(authz.ActionView) {
			ids = append(ids, def.ID)
		}
	}
	return RightsView{Version: version, ReportIDs: ids}, nil
}
