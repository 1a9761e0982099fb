// Package topology recovers the faces of a convex polyhedron from a bare set
// of vertex positions. Vertices live in an arena and refer to each other by
// integer handle, so adjacency and face membership are compared by handle
// and never by position.
package topology

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxDegree is the adjacency capacity of a single vertex. Every solid built
// through this package is 3-regular.
const MaxDegree = 3

// distanceEpsilon absorbs floating-point error in the squared edge test.
const distanceEpsilon = 0.001

var (
	// ErrDegreeOverflow is returned when linking would give a vertex more
	// than MaxDegree neighbors.
	ErrDegreeOverflow = errors.New("topology: vertex degree exceeds capacity")

	// ErrNotRegular is returned when a vertex does not have the expected
	// number of neighbors after the adjacency build.
	ErrNotRegular = errors.New("topology: graph is not regular")

	// ErrFaceCount is returned when face reconstruction finds a different
	// number of faces than the solid requires.
	ErrFaceCount = errors.New("topology: unexpected face count")
)

// Vertex is a position plus the handles of its neighbors.
type Vertex struct {
	Position v3.Vec
	edges    [MaxDegree]int
	degree   int
}

// Degree returns the number of neighbors.
func (v *Vertex) Degree() int {
	return v.degree
}

// Neighbors returns the neighbor handles. The slice aliases the vertex and
// must not be modified.
func (v *Vertex) Neighbors() []int {
	return v.edges[:v.degree]
}

// Adjacent reports whether h is a neighbor of v.
func (v *Vertex) Adjacent(h int) bool {
	for _, e := range v.Neighbors() {
		if e == h {
			return true
		}
	}
	return false
}

// Graph is an arena of vertices and the undirected edges between them.
// A Graph is owned by a single generation call and is not safe for
// concurrent mutation.
type Graph struct {
	vertices []Vertex
}

// New creates a graph with one unlinked vertex per position. Handles are
// the indices into positions.
func New(positions []v3.Vec) *Graph {
	g := &Graph{vertices: make([]Vertex, len(positions))}
	for i, p := range positions {
		g.vertices[i].Position = p
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// Vertex returns the vertex with handle h.
func (g *Graph) Vertex(h int) *Vertex {
	return &g.vertices[h]
}

// Position returns the position of vertex h.
func (g *Graph) Position(h int) v3.Vec {
	return g.vertices[h].Position
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	sum := 0
	for i := range g.vertices {
		sum += g.vertices[i].degree
	}
	return sum / 2
}

// link adds the undirected edge a-b.
func (g *Graph) link(a, b int) error {
	va, vb := &g.vertices[a], &g.vertices[b]
	if va.degree == MaxDegree {
		return fmt.Errorf("%w: vertex %d", ErrDegreeOverflow, a)
	}
	if vb.degree == MaxDegree {
		return fmt.Errorf("%w: vertex %d", ErrDegreeOverflow, b)
	}
	va.edges[va.degree] = b
	va.degree++
	vb.edges[vb.degree] = a
	vb.degree++
	return nil
}

// Connect links every pair of vertices whose distance is at most
// maxDistance. The comparison is done on squared distances with a small
// additive tolerance. Neighbor order within a vertex is unspecified.
func (g *Graph) Connect(maxDistance float64) error {
	limit := maxDistance * maxDistance
	for i := range g.vertices {
		for k := i + 1; k < len(g.vertices); k++ {
			if g.vertices[i].Adjacent(k) {
				continue
			}
			d := g.vertices[i].Position.Sub(g.vertices[k].Position).Length2()
			if d-distanceEpsilon <= limit {
				if err := g.link(i, k); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CheckRegular verifies that every vertex has exactly degree neighbors.
func (g *Graph) CheckRegular(degree int) error {
	for i := range g.vertices {
		if n := g.vertices[i].degree; n != degree {
			return fmt.Errorf("%w: vertex %d has %d neighbors, want %d", ErrNotRegular, i, n, degree)
		}
	}
	return nil
}
