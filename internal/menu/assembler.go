package menu

import (
	"context"
	"fmt"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/viewcache"
)

// Entry is one node of the assembled menu, annotated with the caller's
// rights on its module.
type Entry struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Path     string   `json:"path,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Rights   []string `json:"rights,omitempty"`
	Children []Entry  `json:"children,omitempty"`
}

// View is the cached menu for one (tenant, user, version) key.
type View struct {
	Version int64   `json:"version"`
	Items   []Entry `json:"items"`
}

// Assembler builds rights-annotated menus through the versioned view cache.
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

// BuildMenu returns the menu for the caller, served from cache when the
// entry for the caller's current rights version exists.
func (a *Assembler) BuildMenu(ctx context.Context, tenantID, userID int64) (View, error) {
	version, err := a.versions.Current(ctx, tenantID, userID)
	if err != nil {
		return View{}, err
	}
	key := viewcache.Key{TenantID: tenantID, UserID: userID, Kind: viewcache.KindMenu, Version: version}
	v, err := a.cache.GetOrCompute(ctx, key, func(ctx context.Context) (any, error) {
		return a.assemble(ctx, tenantID, userID, version)
	})
	if err != nil {
		return View{}, err
	}
	view, ok := v.(View)
	if !ok {
		return View{}, fmt.Errorf("menu: unexpected cache payload %T", v)
	}
	return view, nil
}

// Refresh drops the cached menu for the caller's current version. This is
// the operational maintenance hook; correctness never needs it.
func (a *Assembler) Refresh(ctx context.Context, tenantID, userID int64) error {
	version, err := a.versions.Current(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	a.cache.Evict(viewcache.Key{TenantID: tenantID, UserID: userID, Kind: viewcache.KindMenu, Version: version})
	return nil
}

// assemble is the cache compute function: one grant snapshot, one pruned
// depth-first walk. Pure given the snapshot.
func (a *Assembler) assemble(ctx context.Context, tenantID, userID, version int64) (View, error) {
	snapshot, err := a.evaluator.Snapshot(ctx, tenantID, userID)
	if err != nil {
		return View{}, err
	}
	return View{Version: version, Items: pruneNodes(a.catalog.Roots(), snapshot)}, nil
}

// pruneNodes keeps a node when it has a direct VIEW grant or at least one
// visible descendant.
func pruneNodes(nodes []*Node, snapshot authz.Snapshot) []Entry {
	entries := make([]Entry, 0, len(nodes))
	for _, node := range nodes {
		children := pruneNodes(node.Children, snapshot)
		rights := snapshot[node.Module]
		visible := node.Module != "" && rights.Has(authz.ActionView)
		if !visible && len(children) == 0 {
			continue
		}
		entry := Entry{
			ID:       node.ID,
			Label:    node.Label,
			Path:     node.Path,
			Icon:     node.Icon,
			Children: children,
		}
		if visible {
			entry.Rights = rights.Actions()
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil
	}
	return entries
}
