// Package menu assembles the per-user sidebar menu from the static catalog
// and the caller's capability grants.
package menu

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/caterline-erp/caterline-erp/internal/authz"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Node is one entry of the static menu catalog. Group nodes carry no module
// code and become visible only through their descendants.
type Node struct {
	ID       string
	Module   string
	Label    string
	Path     string
	Icon     string
	Order    int
	Children []*Node
}

// Catalog is the immutable menu tree, loaded once at startup.
type Catalog struct {
	roots []*Node
}

type nodeSpec struct {
	ID       string     `yaml:"id"`
	Module   string     `yaml:"module"`
	Label    string     `yaml:"label"`
	Path     string     `yaml:"path"`
	Icon     string     `yaml:"icon"`
	Order    int        `yaml:"order"`
	Children []nodeSpec `yaml:"children"`
}

type catalogSpec struct {
	Nodes []nodeSpec `yaml:"nodes"`
}

// LoadCatalog parses the embedded catalog file.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog builds a catalog from raw YAML.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var spec catalogSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("menu: parse catalog: %w", err)
	}
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("menu: catalog declares no nodes")
	}
	roots := buildNodes(spec.Nodes)
	return &Catalog{roots: roots}, nil
}

func buildNodes(specs []nodeSpec) []*Node {
	nodes := make([]*Node, 0, len(specs))
	for _, s := range specs {
		node := &Node{
			ID:     s.ID,
			Module: s.Module,
			Label:  s.Label,
			Path:   s.Path,
			Icon:   s.Icon,
			Order:  s.Order,
		}
		if node.Label == "" {
			node.Label = labelFromModule(s.Module)
		}
		node.Children = buildNodes(s.Children)
		nodes = append(nodes, node)
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Order < nodes[j].Order })
	return nodes
}

var titleCaser = cases.Title(language.English)

func labelFromModule(code string) string {
	if code == "" {
		return ""
	}
	words := strings.ReplaceAll(strings.ToLower(code), "_", " ")
	return titleCaser.String(words)
}

// Roots returns the ordered top-level nodes.
func (c *Catalog) Roots() []*Node {
	return c.roots
}

// Validate checks catalog consistency against the module catalog: unique
// IDs, known module codes, and no empty group nodes. Failures abort startup.
func (c *Catalog) Validate(modules *authz.Catalog) error {
	seen := make(map[string]struct{})
	var walk func(nodes []*Node) error
	walk = func(nodes []*Node) error {
		for _, node := range nodes {
			if node.ID == "" {
				return fmt.Errorf("menu: node without id (label %q)", node.Label)
			}
			if _, dup := seen[node.ID]; dup {
				return fmt.Errorf("menu: duplicate node id %q", node.ID)
			}
			seen[node.ID] = struct{}{}
			if node.Module == "" && len(node.Children) == 0 {
				return fmt.Errorf("menu: group node %q has no children", node.ID)
			}
			if node.Module != "" && !modules.Known(node.Module) {
				return fmt.Errorf("%w: menu node %q references %s", authz.ErrUnknownModule, node.ID, node.Module)
			}
			if err := walk(node.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(c.roots)
}
