// Package authz implements the capability evaluator and the authorization
// gate guarding every capability-checked operation.
package authz

import "strings"

// Action is a single permission bit a user can hold on a module.
type Action uint8

// Actions supported by grants. A grant stores these as a bitmask.
const (
	ActionView Action = 1 << iota
	ActionAdd
	ActionEdit
	ActionDelete
	ActionPrint
)

var actionNames = map[Action]string{
	ActionView:   "VIEW",
	ActionAdd:    "ADD",
	ActionEdit:   "EDIT",
	ActionDelete: "DELETE",
	ActionPrint:  "PRINT",
}

// String returns the canonical action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseAction converts a canonical action name back to its bit.
func ParseAction(name string) (Action, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "VIEW":
		return ActionView, true
	case "ADD":
		return ActionAdd, true
	case "EDIT":
		return ActionEdit, true
	case "DELETE":
		return ActionDelete, true
	case "PRINT":
		return ActionPrint, true
	}
	return 0, false
}

// allActions preserves declaration order for deterministic listings.
var allActions = []Action{ActionView, ActionAdd, ActionEdit, ActionDelete, ActionPrint}

// Rights is the bitmask of actions a user holds on one module.
type Rights uint8

// RightsOf combines actions into a bitmask.
func RightsOf(actions ...Action) Rights {
	var r Rights
	for _, a := range actions {
		r |= Rights(a)
	}
	return r
}

// Has reports whether the action bit is set.
func (r Rights) Has(a Action) bool {
	return r&Rights(a) != 0
}

// With returns a copy with the given actions set.
func (r Rights) With(actions ...Action) Rights {
	return r | RightsOf(actions...)
}

// Without returns a copy with the given actions cleared.
func (r Rights) Without(actions ...Action) Rights {
	return r &^ RightsOf(actions...)
}

// Actions lists the granted actions in declaration order.
func (r Rights) Actions() []string {
	names := make([]string, 0, len(allActions))
	for _, a := range allActions {
		if r.Has(a) {
			names = append(names, a.String())
		}
	}
	return names
}

// Capability names one (module, action) permission.
type Capability struct {
	Module string
	Action Action
}

// Cap is shorthand for constructing a Capability.
func Cap(module string, action Action) Capability {
	return Capability{Module: module, Action: action}
}

// String renders the capability as MODULE.ACTION.
func (c Capability) String() string {
	return c.Module + "." + c.Action.String()
}

// Combinator decides how multiple capabilities in a spec combine.
type Combinator int

const (
	// CombineAll requires every capability to be granted.
	CombineAll Combinator = iota
	// CombineAny requires at least one capability to be granted.
	CombineAny
)

// RequirementSpec is the set of capabilities an operation demands. Specs are
// declared at deploy time and never mutated.
type RequirementSpec struct {
	Capabilities []Capability
	Combinator   Combinator
}

// RequireAll builds a spec that demands every capability.
func RequireAll(caps ...Capability) RequirementSpec {
	return RequirementSpec{Capabilities: caps, Combinator: CombineAll}
}

// RequireAny builds a spec that demands at least one capability.
func RequireAny(caps ...Capability) RequirementSpec {
	return RequirementSpec{Capabilities: caps, Combinator: CombineAny}
}

// Empty reports whether the spec demands nothing.
func (s RequirementSpec) Empty() bool {
	return len(s.Capabilities) == 0
}

// Describe renders a human-readable label for denial responses. It names the
// unmet requirement only, never the caller's grant state.
func (s RequirementSpec) Describe() string {
	if s.Empty() {
		return "no capability required"
	}
	parts := make([]string, len(s.Capabilities))
	for i, c := range s.Capabilities {
		parts[i] = c.String()
	}
	joiner := " and "
	if s.Combinator == CombineAny {
		joiner = " or "
	}
	return "requires " + strings.Join(parts, joiner)
}

// Decision is the outcome of evaluating a spec against a grant snapshot.
type Decision int

const (
	// Deny is the zero value so absent data fails closed.
	Deny Decision = iota
	// Allow permits the operation.
	Allow
)

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool {
	return d == Allow
}

// Grant is one stored rights row for a (tenant, user, module) key.
type Grant struct {
	TenantID int64
	UserID   int64
	Module   string
	Rights   Rights
}

// Snapshot is a point-in-time view of one user's grants, keyed by module
// code. A missing module means no rights.
type Snapshot map[string]Rights

// Evaluate tests the spec against the snapshot. Missing grants leave every
// action bit unset, so evaluation fails closed.
func (s Snapshot) Evaluate(spec RequirementSpec) Decision {
	if spec.Empty() {
		return Allow
	}
	if spec.Combinator == CombineAny {
		for _, c := range spec.Capabilities {
			if s[c.Module].Has(c.Action) {
				return Allow
			}
		}
		return Deny
	}
	for _, c := range spec.Capabilities {
		if !s[c.Module].Has(c.Action) {
			return Deny
		}
	}
	return Allow
}
