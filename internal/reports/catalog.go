// Package reports exposes the report catalog filtered by caller rights and
// renders report documents.
package reports

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/caterline-erp/caterline-erp/internal/authz"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Definition describes one report in the static catalog.
type Definition struct {
	ID       string `yaml:"id" json:"id"`
	Category string `yaml:"category" json:"category"`
	Module   string `yaml:"module" json:"-"`
	Title    string `yaml:"title" json:"title"`
}

// Catalog is the immutable report catalog, loaded once at startup.
type Catalog struct {
	defs []Definition
	byID map[string]Definition
}

type catalogSpec struct {
	Reports []Definition `yaml:"reports"`
}

// LoadCatalog parses the embedded catalog file.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog builds a catalog from raw YAML.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var spec catalogSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("reports: parse catalog: %w", err)
	}
	byID := make(map[string]Definition, len(spec.Reports))
	for _, def := range spec.Reports {
		if def.ID == "" || def.Module == "" {
			return nil, fmt.Errorf("reports: definition missing id or module (id %q)", def.ID)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("reports: duplicate report id %q", def.ID)
		}
		byID[def.ID] = def
	}
	return &Catalog{defs: spec.Reports, byID: byID}, nil
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	return c.defs
}

// Get returns the definition for an ID.
func (c *Catalog) Get(id string) (Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Validate checks every referenced module code. Failures abort startup.
func (c *Catalog) Validate(modules *authz.Catalog) error {
	for _, def := range c.defs {
		if !modules.Known(def.Module) {
			return fmt.Errorf("%w: report %s references %s", authz.ErrUnknownModule, def.ID, def.Module)
		}
	}
	return nil
}
