package authz

import "testing"

func TestRightsBitmask(t *testing.T) {
	r := RightsOf(ActionView, ActionEdit)
	if !r.Has(ActionView) || !r.Has(ActionEdit) {
		t.Fatalf("expected VIEW and EDIT set, got %v", r.Actions())
	}
	if r.Has(ActionDelete) {
		t.Fatalf("DELETE should not be set")
	}

	r = r.With(ActionPrint).Without(ActionEdit)
	if !r.Has(ActionPrint) || r.Has(ActionEdit) {
		t.Fatalf("expected PRINT set and EDIT cleared, got %v", r.Actions())
	}
}

func TestRightsActionsOrder(t *testing.T) {
	r := RightsOf(ActionPrint, ActionView, ActionDelete)
	got := r.Actions()
	want := []string{"VIEW", "DELETE", "PRINT"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseAction(t *testing.T) {
	for _, name := range []string{"VIEW", "view", " Print "} {
		if _, ok := ParseAction(name); !ok {
			t.Fatalf("expected %q to parse", name)
		}
	}
	if _, ok := ParseAction("EXPORT"); ok {
		t.Fatalf("EXPORT must not parse")
	}
}

func TestSnapshotEvaluateAll(t *testing.T) {
	snap := Snapshot{
		"GODOWN": RightsOf(ActionView, ActionPrint),
	}

	spec := RequireAll(Cap("GODOWN", ActionView), Cap("GODOWN", ActionPrint))
	if !snap.Evaluate(spec).Allowed() {
		t.Fatalf("VIEW+PRINT held, spec must allow")
	}

	spec = RequireAll(Cap("GODOWN", ActionView), Cap("GODOWN", ActionEdit))
	if snap.Evaluate(spec).Allowed() {
		t.Fatalf("EDIT missing, all-combinator must deny")
	}
}

func TestSnapshotEvaluateAny(t *testing.T) {
	snap := Snapshot{
		"GODOWN": RightsOf(ActionEdit),
	}
	spec := RequireAny(Cap("GODOWN", ActionView), Cap("GODOWN", ActionEdit))
	if !snap.Evaluate(spec).Allowed() {
		t.Fatalf("EDIT held, any-combinator must allow")
	}

	spec = RequireAny(Cap("GODOWN", ActionDelete), Cap("VOUCHERS", ActionView))
	if snap.Evaluate(spec).Allowed() {
		t.Fatalf("no listed capability held, must deny")
	}
}

func TestSnapshotEvaluateFailsClosed(t *testing.T) {
	var snap Snapshot
	if snap.Evaluate(RequireAll(Cap("GODOWN", ActionView))).Allowed() {
		t.Fatalf("nil snapshot must deny")
	}
	if !snap.Evaluate(RequirementSpec{}).Allowed() {
		t.Fatalf("empty spec must allow even with nil snapshot")
	}
}

func TestDecisionZeroValueDenies(t *testing.T) {
	var d Decision
	if d.Allowed() {
		t.Fatalf("zero-value decision must deny")
	}
}

func TestDescribe(t *testing.T) {
	spec := RequireAll(Cap("GODOWN", ActionView), Cap("GODOWN", ActionPrint))
	if got := spec.Describe(); got != "requires GODOWN.VIEW and GODOWN.PRINT" {
		t.Fatalf("unexpected description %q", got)
	}
	spec = RequireAny(Cap("VOUCHERS", ActionView), Cap("INVOICES", ActionView))
	if got := spec.Describe(); got != "requires VOUCHERS.VIEW or INVOICES.VIEW" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := (RequirementSpec{}).Describe(); got != "no capability required" {
		t.Fatalf("unexpected description %q", got)
	}
}
