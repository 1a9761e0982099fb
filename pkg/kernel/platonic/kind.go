// Package platonic implements kernel.GeometrySource for a fixed set of
// convex solids centered on the origin. Most are enumerated in closed form;
// the dodecahedron is reconstructed from its vertex set with package
// topology.
package platonic

import (
	"fmt"
	"strings"

	"github.com/chazu/polyhedra/pkg/kernel"
)

// Kind selects a solid.
type Kind int

const (
	KindTetrahedron  Kind = iota // fire
	KindHexahedron               // earth
	KindOctahedron               // air
	KindDodecahedron             // aether
	KindQuad                     // single square in the XZ plane
)

// Kinds lists every supported solid in declaration order.
var Kinds = []Kind{KindTetrahedron, KindHexahedron, KindOctahedron, KindDodecahedron, KindQuad}

func (k Kind) String() string {
	switch k {
	case KindTetrahedron:
		return "Tetrahedron"
	case KindHexahedron:
		return "Hexahedron"
	case KindOctahedron:
		return "Octahedron"
	case KindDodecahedron:
		return "Dodecahedron"
	case KindQuad:
		return "Quad"
	default:
		return "unknown"
	}
}

// ParseKind resolves a case-insensitive solid name. "cube" is accepted as
// an alias for the hexahedron.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "cube" {
		return KindHexahedron, nil
	}
	for _, k := range Kinds {
		if strings.ToLower(k.String()) == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("platonic: unknown solid %q", name)
}

// New returns the geometry source for k.
func New(k Kind) (kernel.GeometrySource, error) {
	switch k {
	case KindTetrahedron:
		return Tetrahedron{}, nil
	case KindHexahedron:
		return Hexahedron{}, nil
	case KindOctahedron:
		return Octahedron{}, nil
	case KindDodecahedron:
		return Dodecahedron{}, nil
	case KindQuad:
		return Quad{}, nil
	default:
		return nil, fmt.Errorf("platonic: unknown kind %d", int(k))
	}
}

// Compile-time interface checks.
var (
	_ kernel.GeometrySource = Tetrahedron{}
	_ kernel.GeometrySource = Hexahedron{}
	_ kernel.GeometrySource = Octahedron{}
	_ kernel.GeometrySource = Dodecahedron{}
	_ kernel.GeometrySource = Quad{}
)
