package menu

import (
	"errors"
	"testing"

	"github.com/caterline-erp/caterline-erp/internal/authz"
	"github.com/caterline-erp/caterline-erp/internal/shared"
)

func testModuleCatalog(t *testing.T) *authz.Catalog {
	t.Helper()
	codes := append(shared.CoreModules(), shared.CateringModules()...)
	catalog, err := authz.NewCatalog(codes...)
	if err != nil {
		t.Fatalf("module catalog: %v", err)
	}
	return catalog
}

func TestEmbeddedCatalogValidates(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if err := catalog.Validate(testModuleCatalog(t)); err != nil {
		t.Fatalf("embedded catalog must validate: %v", err)
	}
	if len(catalog.Roots()) == 0 {
		t.Fatalf("embedded catalog must declare nodes")
	}
}

func TestParseCatalogDefaultsLabelFromModule(t *testing.T) {
	raw := []byte(`
nodes:
  - id: event-types
    module: EVENT_TYPES
    path: /masterdata/event-types
`)
	catalog, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := catalog.Roots()[0].Label; got != "Event Types" {
		t.Fatalf("default label %q, want %q", got, "Event Types")
	}
}

func TestParseCatalogOrdersSiblings(t *testing.T) {
	raw := []byte(`
nodes:
  - id: b
    module: VOUCHERS
    order: 2
  - id: a
    module: GODOWN
    order: 1
`)
	catalog, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	roots := catalog.Roots()
	if roots[0].ID != "a" || roots[1].ID != "b" {
		t.Fatalf("siblings not ordered: %s, %s", roots[0].ID, roots[1].ID)
	}
}

func TestValidateRejectsUnknownModule(t *testing.T) {
	raw := []byte(`
nodes:
  - id: payroll
    module: PAYROLL
`)
	catalog, err := ParseCatalog(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = catalog.Validate(testModuleCatalog(t))
	if !errors.Is(err, authz.ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestValidateRejectsDuplicateIDsAndEmptyGroups(t *testing.T) {
	dup := []byte(`
nodes:
  - id: stock
    module: GODOWN
  - id: stock
    module: VOUCHERS
`)
	catalog, err := ParseCatalog(dup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := catalog.Validate(testModuleCatalog(t)); err == nil {
		t.Fatalf("duplicate ids must fail validation")
	}

	empty := []byte(`
nodes:
  - id: group
    label: Empty Group
`)
	catalog, err = ParseCatalog(empty)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := catalog.Validate(testModuleCatalog(t)); err == nil {
		t.Fatalf("group without children must fail validation")
	}
}
