package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/stretchr/testify/require"
)

func TestDefaultSortedByName(t *testing.T) {
	c := Default()
	names := c.Names()
	require.True(t, sort.StringsAreSorted(names), "names not sorted: %v", names)
	require.Equal(t, []string{
		"BasicMaterial", "Dodecahedron", "Hexahedron", "Octahedron", "Quad", "Tetrahedron",
	}, names)
}

func TestDefaultPrimitivesInstantiate(t *testing.T) {
	c := Default()
	for _, it := range c.Items() {
		if it.Kind != KindPrimitive {
			continue
		}
		t.Run(it.Name, func(t *testing.T) {
			p, err := c.Instantiate(it.Name, nil)
			require.NoError(t, err)
			require.Equal(t, it.Name, p.Name)
			require.NotNil(t, p.Material)
			require.Equal(t, "BasicMaterial", p.Material.Name)
			require.True(t, p.Material.LightingEnabled)

			require.NoError(t, p.Initialize(nil))
			require.False(t, p.Mesh().IsEmpty())
		})
	}
}

func TestInstantiateSharesSceneMaterial(t *testing.T) {
	c := Default()
	s := scene.New()
	c.Install(s)
	shared, err := s.Material("BasicMaterial")
	require.NoError(t, err)

	a, err := c.Instantiate("Tetrahedron", s)
	require.NoError(t, err)
	b, err := c.Instantiate("Quad", s)
	require.NoError(t, err)
	require.Same(t, shared, a.Material)
	require.Same(t, shared, b.Material)
}

func TestInstantiateErrors(t *testing.T) {
	c := Default()
	_, err := c.Instantiate("Icosahedron", nil)
	require.ErrorIs(t, err, ErrUnknownItem)

	_, err = c.Instantiate("BasicMaterial", nil)
	require.ErrorIs(t, err, ErrNotPrimitive)

	_, err = c.Material("Dodecahedron")
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestParseShapeProperty(t *testing.T) {
	c, err := Parse([]byte(`
items:
  - name: Die
    kind: primitive
    properties:
      Shape: cube
`))
	require.NoError(t, err)
	p, err := c.Instantiate("Die", nil)
	require.NoError(t, err)
	require.Equal(t, "Hexahedron", p.Source().Name())
	require.Nil(t, p.Material)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "items: [\n"},
		{"missing name", "items:\n  - kind: material\n"},
		{"duplicate", "items:\n  - {name: A, kind: material}\n  - {name: A, kind: material}\n"},
		{"unknown kind", "items:\n  - {name: A, kind: camera}\n"},
		{"unknown shape", "items:\n  - {name: Icosahedron, kind: primitive}\n"},
		{"dangling material", "items:\n  - {name: Quad, kind: primitive, properties: {Material: Glass}}\n"},
		{"material not a string", "items:\n  - {name: Quad, kind: primitive, properties: {Material: 3}}\n"},
		{"lighting not a bool", "items:\n  - {name: M, kind: material, properties: {LightingEnabled: yes please}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - {name: Solo, kind: primitive, properties: {Shape: octahedron}}\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Solo"}, c.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "changed"
	require.NotEqual(t, "changed", c.Names()[0])
}
