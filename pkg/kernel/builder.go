package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxIndex is the largest index representable in the 16-bit index buffer.
// It caps a single mesh at 65536 vertices.
const MaxIndex = math.MaxUint16

// ErrIndexOutOfRange is returned by AddIndex for an index that does not fit
// the 16-bit index buffer.
var ErrIndexOutOfRange = errors.New("kernel: index out of range")

// Builder accumulates vertices and indices while a solid is generated.
// A Builder is used by one generation call and then discarded; it is not
// safe for concurrent use.
type Builder struct {
	vertices []VertexPositionNormal
	indices  []uint16
	name     string
}

// NewBuilder returns an empty builder. name becomes Mesh.PartName.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddVertex appends a vertex record.
func (b *Builder) AddVertex(position, normal v3.Vec) {
	b.vertices = append(b.vertices, VertexPositionNormal{
		Position: [3]float32{float32(position.X), float32(position.Y), float32(position.Z)},
		Normal:   [3]float32{float32(normal.X), float32(normal.Y), float32(normal.Z)},
	})
}

// CurrentVertex returns the index the next AddVertex call will occupy.
// Generators use it to compute index offsets before or while emitting
// the matching vertices.
func (b *Builder) CurrentVertex() int {
	return len(b.vertices)
}

// AddIndex appends an index. It rejects values outside [0, MaxIndex].
func (b *Builder) AddIndex(i int) error {
	if i < 0 || i > MaxIndex {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	b.indices = append(b.indices, uint16(i))
	return nil
}

// AddTriangle appends the indices of one triangle.
func (b *Builder) AddTriangle(i0, i1, i2 int) error {
	for _, i := range [3]int{i0, i1, i2} {
		if err := b.AddIndex(i); err != nil {
			return err
		}
	}
	return nil
}

// AddFace orients f outward, appends its vertices with the flat normal and
// fan-triangulates it from the first vertex: (0,1,2), (0,2,3), ...
func (b *Builder) AddFace(f Face) error {
	if len(f.Vertices) < 3 {
		return fmt.Errorf("kernel: face has %d vertices, need at least 3", len(f.Vertices))
	}
	f = OrientOutward(f)

	i0 := b.CurrentVertex()
	for _, v := range f.Vertices {
		b.AddVertex(v, f.Normal)
	}
	for k := 1; k+1 < len(f.Vertices); k++ {
		if err := b.AddTriangle(i0, i0+k, i0+k+1); err != nil {
			return err
		}
	}
	return nil
}

// Build copies the accumulated data into a new Mesh and computes its
// bounding box by seeding with the first vertex and merging the rest.
// The bounds of an empty mesh are the zero box.
func (b *Builder) Build() *Mesh {
	m := &Mesh{
		Vertices: make([]VertexPositionNormal, len(b.vertices)),
		Indices:  make([]uint16, len(b.indices)),
		PartName: b.name,
	}
	copy(m.Vertices, b.vertices)
	copy(m.Indices, b.indices)
	m.Bounds = BoundsOf(m.Vertices)
	return m
}

// BoundsOf returns the axis-aligned box enclosing every vertex position.
// An empty slice gives the zero box.
func BoundsOf(vertices []VertexPositionNormal) sdf.Box3 {
	if len(vertices) == 0 {
		return sdf.Box3{}
	}
	p := vertices[0].Pos()
	bb := sdf.Box3{Min: p, Max: p}
	for _, v := range vertices[1:] {
		p = v.Pos()
		bb = bb.Extend(sdf.Box3{Min: p, Max: p})
	}
	return bb
}

// Assemble generates src's faces and packs them into a Mesh.
func Assemble(src GeometrySource) (*Mesh, error) {
	faces, err := src.Faces()
	if err != nil {
		return nil, fmt.Errorf("kernel: %s: %w", src.Name(), err)
	}
	b := NewBuilder(src.Name())
	for i, f := range faces {
		if err := b.AddFace(f); err != nil {
			return nil, fmt.Errorf("kernel: %s: face %d: %w", src.Name(), i, err)
		}
	}
	return b.Build(), nil
}

// MustAssemble is like Assemble but panics on error. The built-in solids
// are fixed geometry, so an error there is a programming defect.
func MustAssemble(src GeometrySource) *Mesh {
	m, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return m
}
