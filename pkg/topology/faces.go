package topology

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// AlignmentThreshold is the minimum dot product between a candidate face
// normal and the normal of the next wedge for the walk to stay on the same
// face. It is tuned for the dodecahedron's dihedral angle and has not been
// validated on other solids.
const AlignmentThreshold = 0.85

// Face is an ordered cycle of vertex handles and its flat normal.
type Face struct {
	Vertices []int
	Normal   v3.Vec
}

// Contains reports whether vertex h is part of the face.
func (f *Face) Contains(h int) bool {
	for _, v := range f.Vertices {
		if v == h {
			return true
		}
	}
	return false
}

// Pentagons walks the adjacency graph and returns every planar 5-cycle.
// For each vertex v1 and each ordered pair of its neighbors (v0, v2) it
// follows v2 -> v3 -> v4 while the wedge normals stay aligned with the
// normal at v1, and accepts the cycle when v4 closes back onto v0.
// A triple already covered by a found face is not walked again.
func (g *Graph) Pentagons() []Face {
	faces := make([]Face, 0, 12)
	for v1 := range g.vertices {
		nbrs := g.vertices[v1].Neighbors()
		for i, v0 := range nbrs {
			for j, v2 := range nbrs {
				if i == j {
					continue
				}
				if face, ok := g.pentagonFrom(faces, v0, v1, v2); ok {
					faces = append(faces, face)
				}
			}
		}
	}
	return faces
}

// PentagonsN is Pentagons followed by a face count check.
func (g *Graph) PentagonsN(want int) ([]Face, error) {
	faces := g.Pentagons()
	if len(faces) != want {
		return nil, fmt.Errorf("%w: found %d, want %d", ErrFaceCount, len(faces), want)
	}
	return faces, nil
}

// pentagonFrom tries to close a planar pentagon starting with the path
// v0-v1-v2, where v1 is adjacent to both v0 and v2.
func (g *Graph) pentagonFrom(found []Face, v0, v1, v2 int) (Face, bool) {
	for i := range found {
		if found[i].Contains(v0) && found[i].Contains(v1) && found[i].Contains(v2) {
			return Face{}, false
		}
	}

	normal := g.wedgeNormal(v0, v1, v2)

	for _, v3 := range g.vertices[v2].Neighbors() {
		if v3 == v1 {
			continue
		}
		if normal.Dot(g.wedgeNormal(v1, v2, v3)) < AlignmentThreshold {
			continue
		}
		for _, v4 := range g.vertices[v3].Neighbors() {
			if v4 == v2 {
				continue
			}
			if normal.Dot(g.wedgeNormal(v2, v3, v4)) < AlignmentThreshold {
				continue
			}
			if g.vertices[v4].Adjacent(v0) {
				// The walk compares raw wedge normals, whose length is
				// sin(108°), so AlignmentThreshold holds on that scale. Only
				// the emitted normal is made unit length.
				return Face{
					Vertices: []int{v0, v1, v2, v3, v4},
					Normal:   normal.Normalize(),
				}, true
			}
		}
	}
	return Face{}, false
}

// wedgeNormal is the cross product of the unit edges leaving b towards a
// and c. Its length is the sine of the interior angle at b.
func (g *Graph) wedgeNormal(a, b, c int) v3.Vec {
	pb := g.vertices[b].Position
	ba := g.vertices[a].Position.Sub(pb).Normalize()
	bc := g.vertices[c].Position.Sub(pb).Normalize()
	return ba.Cross(bc)
}
