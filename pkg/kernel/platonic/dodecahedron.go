package platonic

import (
	"fmt"
	"math"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/topology"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// goldenRatio approximates (1+√5)/2 the way the dodecahedron is sized.
const goldenRatio = 1.618

const (
	dodecahedronVertices = 20
	dodecahedronFaces    = 12
)

// Dodecahedron is the regular dodecahedron with circumradius 1/1.618.
// Its faces are not listed explicitly: they are recovered from the 20
// vertices by linking neighbors within one edge length and walking planar
// 5-cycles.
type Dodecahedron struct{}

func (Dodecahedron) Name() string { return KindDodecahedron.String() }

// Faces returns the 12 pentagonal faces.
func (Dodecahedron) Faces() ([]kernel.Face, error) {
	size := 1 / goldenRatio
	g, err := DodecahedronGraph(size)
	if err != nil {
		return nil, err
	}

	pentagons, err := g.PentagonsN(dodecahedronFaces)
	if err != nil {
		return nil, err
	}

	faces := make([]kernel.Face, len(pentagons))
	for i, p := range pentagons {
		verts := make([]v3.Vec, len(p.Vertices))
		for k, h := range p.Vertices {
			verts[k] = g.Position(h)
		}
		faces[i] = kernel.Face{Vertices: verts, Normal: p.Normal}
	}
	return faces, nil
}

// DodecahedronGraph builds the 3-regular vertex graph of a dodecahedron
// with circumradius r. The edge threshold goldenRatio*r/2 sits between the
// edge length and the shortest face diagonal.
func DodecahedronGraph(r float64) (*topology.Graph, error) {
	g := topology.New(DodecahedronVertices(r))
	if err := g.Connect(goldenRatio * r / 2); err != nil {
		return nil, fmt.Errorf("dodecahedron adjacency: %w", err)
	}
	if err := g.CheckRegular(3); err != nil {
		return nil, fmt.Errorf("dodecahedron adjacency: %w", err)
	}
	return g, nil
}

// DodecahedronVertices returns the 20 vertices of a dodecahedron with
// circumradius r, built from three coordinate families over φ = (√5-1)/2:
//
//	(0, ±c, ±b)  (±c, ±b, 0)  (±b, 0, ±c)  (±a, ±a, ±a)
//
// with a = 1/√3, b = a/φ and c = a·φ.
func DodecahedronVertices(r float64) []v3.Vec {
	phi := (math.Sqrt(5) - 1) / 2

	a := 1 / math.Sqrt(3)
	b := a / phi
	c := a * phi

	signs := [2]float64{-1, 1}
	vertices := make([]v3.Vec, 0, dodecahedronVertices)
	for _, i := range signs {
		for _, j := range signs {
			vertices = append(vertices,
				v3.Vec{X: 0, Y: i * c * r, Z: j * b * r},
				v3.Vec{X: i * c * r, Y: j * b * r, Z: 0},
				v3.Vec{X: i * b * r, Y: 0, Z: j * c * r},
			)
			for _, k := range signs {
				vertices = append(vertices, v3.Vec{X: i * a * r, Y: j * a * r, Z: k * a * r})
			}
		}
	}
	return vertices
}
