// Package catalog is the content library: the named primitives and
// materials a user can instantiate, with their default property values.
//
// The default library is embedded from catalog.yaml. Items are always kept
// sorted by name.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/chazu/polyhedra/pkg/kernel/platonic"
	"github.com/chazu/polyhedra/pkg/scene"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

var (
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
	ErrUnknownItem    = errors.New("catalog: unknown item")
	ErrNotPrimitive   = errors.New("catalog: item is not a primitive")
)

// ItemKind distinguishes instantiable primitives from materials.
type ItemKind string

const (
	KindPrimitive ItemKind = "primitive"
	KindMaterial  ItemKind = "material"
)

// Property names understood by Instantiate and Materials.
const (
	PropMaterial        = "Material"
	PropLightingEnabled = "LightingEnabled"
	PropShape           = "Shape"
)

// Item is one library entry. A primitive's shape is its Shape property, or
// its name when unset.
type Item struct {
	Name       string         `yaml:"name" json:"name"`
	Kind       ItemKind       `yaml:"kind" json:"kind"`
	Properties map[string]any `yaml:"properties,omitempty" json:"properties,omitempty"`
}

type document struct {
	Items []Item `yaml:"items"`
}

// Catalog is an immutable, name-sorted set of items.
type Catalog struct {
	items  []Item
	byName map[string]int
}

// Default returns the embedded library. It panics if the embedded file is
// invalid, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a library from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML library.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{items: doc.Items, byName: make(map[string]int, len(doc.Items))}
	sort.SliceStable(c.items, func(i, j int) bool { return c.items[i].Name < c.items[j].Name })

	for i, it := range c.items {
		if it.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, it.Name)
		}
		c.byName[it.Name] = i
	}
	for _, it := range c.items {
		if err := c.check(it); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) check(it Item) error {
	switch it.Kind {
	case KindPrimitive:
		if _, err := platonic.ParseKind(it.shape()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, it.Name, err)
		}
		if ref, ok := it.Properties[PropMaterial]; ok {
			name, isString := ref.(string)
			if !isString {
				return fmt.Errorf("%w: %s: %s must be a string", ErrInvalidCatalog, it.Name, PropMaterial)
			}
			if m, found := c.Item(name); !found || m.Kind != KindMaterial {
				return fmt.Errorf("%w: %s: material %q is not a material item", ErrInvalidCatalog, it.Name, name)
			}
		}
	case KindMaterial:
		if v, ok := it.Properties[PropLightingEnabled]; ok {
			if _, isBool := v.(bool); !isBool {
				return fmt.Errorf("%w: %s: %s must be a boolean", ErrInvalidCatalog, it.Name, PropLightingEnabled)
			}
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidCatalog, it.Name, it.Kind)
	}
	return nil
}

func (it Item) shape() string {
	if s, ok := it.Properties[PropShape].(string); ok && s != "" {
		return s
	}
	return it.Name
}

// Items returns a copy of the items, sorted by name.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Names returns the item names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.items))
	for i, it := range c.items {
		names[i] = it.Name
	}
	return names
}

// Item returns the named item.
func (c *Catalog) Item(name string) (Item, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Material builds the named material item.
func (c *Catalog) Material(name string) (*scene.Material, error) {
	it, ok := c.Item(name)
	if !ok || it.Kind != KindMaterial {
		return nil, fmt.Errorf("%w: material %q", ErrUnknownItem, name)
	}
	lit, _ := it.Properties[PropLightingEnabled].(bool)
	return &scene.Material{Name: it.Name, LightingEnabled: lit}, nil
}

// Materials builds every material item, in name order.
func (c *Catalog) Materials() []*scene.Material {
	var out []*scene.Material
	for _, it := range c.items {
		if it.Kind == KindMaterial {
			m, _ := c.Material(it.Name)
			out = append(out, m)
		}
	}
	return out
}

// Install registers the catalog's materials with s.
func (c *Catalog) Install(s *scene.Scene) {
	for _, m := range c.Materials() {
		s.AddMaterial(m)
	}
}

// Instantiate creates an uninitialized primitive from the named item with
// its default material. Materials are resolved through s when it has one by
// that name, so instances share the scene's material.
func (c *Catalog) Instantiate(name string, s *scene.Scene) (*scene.Primitive, error) {
	it, ok := c.Item(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	if it.Kind != KindPrimitive {
		return nil, fmt.Errorf("%w: %q is a %s", ErrNotPrimitive, name, it.Kind)
	}
	kind, err := platonic.ParseKind(it.shape())
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}
	src, err := platonic.New(kind)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}

	p := scene.NewPrimitive(it.Name, src)
	if ref, ok := it.Properties[PropMaterial].(string); ok {
		if s != nil {
			if m, err := s.Material(ref); err == nil {
				p.Material = m
				return p, nil
			}
		}
		m, err := c.Material(ref)
		if err != nil {
			return nil, err
		}
		p.Material = m
	}
	return p, nil
}
