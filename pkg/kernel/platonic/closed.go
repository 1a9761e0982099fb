package platonic

import (
	"math"

	"github.com/chazu/polyhedra/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// triangle builds a closed-form triangular face with its flat normal.
// Orientation is left to the assembler.
func triangle(v0, v1, v2 v3.Vec) kernel.Face {
	return kernel.Face{
		Vertices: []v3.Vec{v0, v1, v2},
		Normal:   kernel.TriangleNormal(v0, v1, v2),
	}
}

// Tetrahedron is the regular tetrahedron with edge length 1.
type Tetrahedron struct{}

func (Tetrahedron) Name() string { return KindTetrahedron.String() }

// Faces returns every 3-subset of the four corners, C(4,3) = 4 triangles.
func (Tetrahedron) Faces() ([]kernel.Face, error) {
	sqrt2 := math.Sqrt2
	size := 1 / sqrt2

	corners := [4]v3.Vec{
		{X: +1 * size, Y: 0, Z: -1 / sqrt2 * size},
		{X: -1 * size, Y: 0, Z: -1 / sqrt2 * size},
		{X: 0, Y: +1 * size, Z: +1 / sqrt2 * size},
		{X: 0, Y: -1 * size, Z: +1 / sqrt2 * size},
	}

	faces := make([]kernel.Face, 0, 4)
	for i := 0; i < 4; i++ {
		for k := i + 1; k < 4; k++ {
			for j := k + 1; j < 4; j++ {
				faces = append(faces, triangle(corners[i], corners[k], corners[j]))
			}
		}
	}
	return faces, nil
}

// Octahedron is the regular octahedron with circumradius 1/√2.
type Octahedron struct{}

func (Octahedron) Name() string { return KindOctahedron.String() }

// Faces pairs each of the two apexes on the X axis with each edge of the
// equator in the YZ plane.
func (Octahedron) Faces() ([]kernel.Face, error) {
	size := 1 / math.Sqrt2

	apexes := [2]v3.Vec{
		{X: +size},
		{X: -size},
	}
	equator := [4]v3.Vec{
		{Y: +size},
		{Z: +size},
		{Y: -size},
		{Z: -size},
	}

	faces := make([]kernel.Face, 0, 8)
	for i := 0; i < 2; i++ {
		for k := 0; k < 4; k++ {
			faces = append(faces, triangle(equator[k], apexes[i], equator[(k+1)%4]))
		}
	}
	return faces, nil
}

// square returns the quad face perpendicular to normal, offset from the
// origin by normal*offset, with side length size. The corners are listed
// clockwise seen from the normal side.
func square(normal v3.Vec, offset, size float64) kernel.Face {
	// Two vectors perpendicular to the normal and to each other.
	side1 := v3.Vec{X: normal.Y, Y: normal.Z, Z: normal.X}
	side2 := normal.Cross(side1)
	center := normal.MulScalar(offset)
	h := size / 2

	return kernel.Face{
		Vertices: []v3.Vec{
			center.Add(side1.MulScalar(-h)).Add(side2.MulScalar(-h)),
			center.Add(side1.MulScalar(-h)).Add(side2.MulScalar(+h)),
			center.Add(side1.MulScalar(+h)).Add(side2.MulScalar(+h)),
			center.Add(side1.MulScalar(+h)).Add(side2.MulScalar(-h)),
		},
		Normal: normal,
	}
}

// Hexahedron is the unit cube.
type Hexahedron struct{}

func (Hexahedron) Name() string { return KindHexahedron.String() }

// Faces returns six squares, two triangles each once assembled.
func (Hexahedron) Faces() ([]kernel.Face, error) {
	normals := [6]v3.Vec{
		{Z: +1},
		{Z: -1},
		{X: +1},
		{X: -1},
		{Y: +1},
		{Y: -1},
	}
	faces := make([]kernel.Face, 0, 6)
	for _, n := range normals {
		faces = append(faces, square(n, 0.5, 1))
	}
	return faces, nil
}

// Quad is a unit square in the XZ plane facing +Y.
type Quad struct{}

func (Quad) Name() string { return KindQuad.String() }

// Faces returns the single square face.
func (Quad) Faces() ([]kernel.Face, error) {
	return []kernel.Face{square(v3.Vec{Y: 1}, 0, 1)}, nil
}
