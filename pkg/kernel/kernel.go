// Package kernel defines the primitive geometry contract and the mesh
// assembler. Generators (see package platonic) implement GeometrySource and
// emit polygon faces; Assemble orients, triangulates and packs them into a
// Mesh ready for upload.
package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GeometrySource produces the faces of a fixed, parameterless solid.
// Faces must be deterministic: two calls return identical geometry.
type GeometrySource interface {
	// Name identifies the solid, e.g. "Dodecahedron".
	Name() string

	// Faces returns the convex polygon faces of the solid, each with its
	// flat normal. Faces need not be oriented yet.
	Faces() ([]Face, error)
}

// Face is a convex polygon and its flat unit normal.
type Face struct {
	Vertices []v3.Vec
	Normal   v3.Vec
}

// Uploader receives finished vertex and index arrays, e.g. to copy them
// into GPU buffers. Indices are a triangle list.
type Uploader interface {
	Upload(vertices []VertexPositionNormal, indices []uint16) error
}

// OrientOutward enforces the winding invariant used by every solid in this
// module: for a convex solid centered on the origin, the face normal points
// away from the origin. If dot(v0, normal) < 0 the normal is negated and
// the order of all vertices after v0 is reversed (for a triangle this swaps
// v1 and v2). Faces are never modified in place.
//
// With that normal, Builder fan-triangulates into triangles wound clockwise
// when viewed from the side the normal points to.
func OrientOutward(f Face) Face {
	if len(f.Vertices) == 0 || f.Vertices[0].Dot(f.Normal) >= 0 {
		return f
	}
	n := len(f.Vertices)
	out := Face{
		Vertices: make([]v3.Vec, n),
		Normal:   f.Normal.MulScalar(-1),
	}
	out.Vertices[0] = f.Vertices[0]
	for i := 1; i < n; i++ {
		out.Vertices[i] = f.Vertices[n-i]
	}
	return out
}

// TriangleNormal returns normalize(-cross(v0-v1, v0-v2)), the flat normal
// of a triangle listed in clockwise order.
func TriangleNormal(v0, v1, v2 v3.Vec) v3.Vec {
	return v0.Sub(v1).Cross(v0.Sub(v2)).MulScalar(-1).Normalize()
}
