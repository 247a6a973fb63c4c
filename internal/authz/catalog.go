package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownModule reports a capability referencing an undeclared module.
// It is a configuration error and must abort startup, never a request.
var ErrUnknownModule = errors.New("authz: unknown module code")

// Catalog is the immutable set of module codes known to the process.
type Catalog struct {
	modules map[string]struct{}
}

// NewCatalog builds a catalog from the declared module codes.
func NewCatalog(codes ...string) (*Catalog, error) {
	modules := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, errors.New("authz: empty module code in catalog")
		}
		if _, dup := modules[code]; dup {
			return nil, fmt.Errorf("authz: duplicate module code %q", code)
		}
		modules[code] = struct{}{}
	}
	return &Catalog{modules: modules}, nil
}

// Known reports whether the module code is declared.
func (c *Catalog) Known(code string) bool {
	_, ok := c.modules[code]
	return ok
}

// Modules lists declared module codes sorted for stable output.
func (c *Catalog) Modules() []string {
	codes := make([]string, 0, len(c.modules))
	for code := range c.modules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Validate checks every capability in the given specs against the catalog.
// Called once at startup with all deploy-time declared specs.
func (c *Catalog) Validate(specs ...RequirementSpec) error {
	for _, spec := range specs {
		for _, cap := range spec.Capabilities {
			if !c.Known(cap.Module) {
				return fmt.Errorf("%w: %s", ErrUnknownModule, cap.String())
			}
		}
	}
	return nil
}
