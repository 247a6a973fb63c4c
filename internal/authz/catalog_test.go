package authz

import (
	"errors"
	"testing"
)

func TestNewCatalogRejectsBadCodes(t *testing.T) {
	if _, err := NewCatalog("GODOWN", ""); err == nil {
		t.Fatalf("empty code must be rejected")
	}
	if _, err := NewCatalog("GODOWN", "GODOWN"); err == nil {
		t.Fatalf("duplicate code must be rejected")
	}
}

func TestCatalogValidate(t *testing.T) {
	catalog, err := NewCatalog("GODOWN", "VOUCHERS")
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if err := catalog.Validate(RequireAll(Cap("GODOWN", ActionView))); err != nil {
		t.Fatalf("known module must validate: %v", err)
	}

	err = catalog.Validate(
		RequireAll(Cap("GODOWN", ActionView)),
		RequireAny(Cap("PAYROLL", ActionView)),
	)
	if !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestCatalogModulesSorted(t *testing.T) {
	catalog, err := NewCatalog("VOUCHERS", "GODOWN", "INVOICES")
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	got := catalog.Modules()
	want := []string{"GODOWN", "INVOICES", "VOUCHERS"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDeclaredSpecsValidateAgainstCoreCatalog(t *testing.T) {
	catalog, err := NewCatalog(
		"DASHBOARD", "USERS", "RIGHTS", "REPORTS",
		"EVENT_TYPES", "KITCHEN_AREAS", "PURCHASE_ORDERS",
		"GODOWN", "VOUCHERS", "INVOICES",
	)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if err := catalog.Validate(DeclaredSpecs()...); err != nil {
		t.Fatalf("declared specs must validate: %v", err)
	}
}
