package kernel

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VertexPositionNormal is the vertex record handed to the upload boundary:
// three floats of position followed by three floats of normal.
type VertexPositionNormal struct {
	Position [3]float32 `json:"position"`
	Normal   [3]float32 `json:"normal"`
}

// Pos returns the position widened to float64.
func (v VertexPositionNormal) Pos() v3.Vec {
	return v3.Vec{X: float64(v.Position[0]), Y: float64(v.Position[1]), Z: float64(v.Position[2])}
}

// Norm returns the normal widened to float64.
func (v VertexPositionNormal) Norm() v3.Vec {
	return v3.Vec{X: float64(v.Normal[0]), Y: float64(v.Normal[1]), Z: float64(v.Normal[2])}
}

// Mesh is an indexed triangle list with flat per-face normals.
// Every three indices form one triangle. A Mesh is not modified after
// Builder.Build returns it.
type Mesh struct {
	Vertices []VertexPositionNormal `json:"vertices"`
	Indices  []uint16               `json:"indices"`
	Bounds   sdf.Box3               `json:"-"`
	PartName string                 `json:"partName"` // which primitive or scene node this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Positions returns the positions as a flat [x0,y0,z0, x1,y1,z1, ...] array.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2])
	}
	return out
}

// Normals returns the normals as a flat [nx0,ny0,nz0, ...] array.
func (m *Mesh) Normals() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

// Triangle returns the three vertex records of triangle i.
func (m *Mesh) Triangle(i int) [3]VertexPositionNormal {
	return [3]VertexPositionNormal{
		m.Vertices[m.Indices[3*i]],
		m.Vertices[m.Indices[3*i+1]],
		m.Vertices[m.Indices[3*i+2]],
	}
}
