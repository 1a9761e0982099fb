package kernel

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []VertexPositionNormal
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", make([]VertexPositionNormal, 1), 1},
		{"four vertices", make([]VertexPositionNormal, 4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint16
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint16{0, 1, 2}, 1},
		{"two triangles", []uint16{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: make([]VertexPositionNormal, 1)}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshFlatArrays(t *testing.T) {
	m := &Mesh{Vertices: []VertexPositionNormal{
		{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{4, 5, 6}, Normal: [3]float32{0, 0, 1}},
	}}
	pos := m.Positions()
	nrm := m.Normals()
	if len(pos) != 6 || len(nrm) != 6 {
		t.Fatalf("len(Positions) = %d, len(Normals) = %d, want 6 and 6", len(pos), len(nrm))
	}
	if pos[3] != 4 || nrm[5] != 1 {
		t.Errorf("Positions() = %v, Normals() = %v", pos, nrm)
	}
}

// --- Orientation ---

func TestOrientOutward(t *testing.T) {
	v0 := v3.Vec{X: 1, Y: 0, Z: 1}
	v1 := v3.Vec{X: 0, Y: 1, Z: 1}
	v2 := v3.Vec{X: -1, Y: 0, Z: 1}

	t.Run("already outward", func(t *testing.T) {
		f := Face{Vertices: []v3.Vec{v0, v1, v2}, Normal: v3.Vec{Z: 1}}
		got := OrientOutward(f)
		if got.Normal != f.Normal || got.Vertices[1] != v1 || got.Vertices[2] != v2 {
			t.Errorf("OrientOutward changed an outward face: %+v", got)
		}
	})

	t.Run("inward triangle swaps v1 and v2", func(t *testing.T) {
		f := Face{Vertices: []v3.Vec{v0, v1, v2}, Normal: v3.Vec{Z: -1}}
		got := OrientOutward(f)
		if got.Normal != (v3.Vec{Z: 1}) {
			t.Errorf("Normal = %v, want +Z", got.Normal)
		}
		if got.Vertices[0] != v0 || got.Vertices[1] != v2 || got.Vertices[2] != v1 {
			t.Errorf("Vertices = %v, want v0 v2 v1", got.Vertices)
		}
		if f.Vertices[1] != v1 {
			t.Error("OrientOutward modified its input")
		}
	})

	t.Run("inward pentagon reverses after v0", func(t *testing.T) {
		p := []v3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}
		for i := range p {
			p[i].Z = 1
		}
		got := OrientOutward(Face{Vertices: p, Normal: v3.Vec{Z: -1}})
		want := []v3.Vec{p[0], p[4], p[3], p[2], p[1]}
		for i := range want {
			if got.Vertices[i] != want[i] {
				t.Fatalf("Vertices = %v, want %v", got.Vertices, want)
			}
		}
	})
}

func TestTriangleNormal(t *testing.T) {
	// Clockwise seen from +Z.
	n := TriangleNormal(v3.Vec{X: 0, Y: 0}, v3.Vec{X: 0, Y: 1}, v3.Vec{X: 1, Y: 0})
	if math.Abs(n.Z-1) > 1e-12 || n.X != 0 || n.Y != 0 {
		t.Errorf("TriangleNormal = %v, want +Z", n)
	}
}

// --- Builder ---

func TestBuilderAddIndexRange(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"max", MaxIndex, false},
		{"one past max", MaxIndex + 1, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("test")
			err := b.AddIndex(tt.index)
			if tt.wantErr {
				if !errors.Is(err, ErrIndexOutOfRange) {
					t.Errorf("AddIndex(%d) = %v, want ErrIndexOutOfRange", tt.index, err)
				}
				if len(b.Build().Indices) != 0 {
					t.Error("rejected index was appended")
				}
				return
			}
			if err != nil {
				t.Errorf("AddIndex(%d) = %v, want nil", tt.index, err)
			}
		})
	}
}

func TestBuilderIndicesBeforeVertices(t *testing.T) {
	b := NewBuilder("tri")
	base := b.CurrentVertex()
	if err := b.AddTriangle(base, base+1, base+2); err != nil {
		t.Fatal(err)
	}
	b.AddVertex(v3.Vec{X: 1}, v3.Vec{Z: 1})
	b.AddVertex(v3.Vec{Y: 1}, v3.Vec{Z: 1})
	if got := b.CurrentVertex(); got != 2 {
		t.Errorf("CurrentVertex() = %d, want 2", got)
	}
	b.AddVertex(v3.Vec{X: -1}, v3.Vec{Z: 1})

	m := b.Build()
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if m.PartName != "tri" {
		t.Errorf("PartName = %q, want %q", m.PartName, "tri")
	}
}

func TestBuilderAddFaceFanTriangulates(t *testing.T) {
	b := NewBuilder("pentagon")
	var pts []v3.Vec
	for i := 0; i < 5; i++ {
		a := -2 * math.Pi * float64(i) / 5 // clockwise seen from +Z
		pts = append(pts, v3.Vec{X: math.Cos(a), Y: math.Sin(a), Z: 1})
	}
	if err := b.AddFace(Face{Vertices: pts, Normal: v3.Vec{Z: 1}}); err != nil {
		t.Fatal(err)
	}
	m := b.Build()

	want := []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4}
	if len(m.Indices) != len(want) {
		t.Fatalf("Indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("Indices = %v, want %v", m.Indices, want)
		}
	}
	if errs := Validate(m); HasErrors(errs) {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestBuilderAddFaceRejectsDegenerate(t *testing.T) {
	b := NewBuilder("bad")
	err := b.AddFace(Face{Vertices: []v3.Vec{{X: 1}, {Y: 1}}})
	if err == nil {
		t.Fatal("AddFace with 2 vertices should fail")
	}
}

func TestBuilderBuildCopies(t *testing.T) {
	b := NewBuilder("copy")
	b.AddVertex(v3.Vec{X: 1}, v3.Vec{X: 1})
	m := b.Build()
	b.AddVertex(v3.Vec{X: 2}, v3.Vec{X: 1})
	if m.VertexCount() != 1 {
		t.Errorf("built mesh changed after further AddVertex: %d vertices", m.VertexCount())
	}
}

func TestBuilderBounds(t *testing.T) {
	b := NewBuilder("bounds")
	for _, p := range []v3.Vec{{X: 1, Y: -2, Z: 0}, {X: -3, Y: 4, Z: 5}, {X: 0, Y: 0, Z: -6}} {
		b.AddVertex(p, v3.Vec{Z: 1})
	}
	bb := b.Build().Bounds
	if bb.Min != (v3.Vec{X: -3, Y: -2, Z: -6}) {
		t.Errorf("Bounds.Min = %v", bb.Min)
	}
	if bb.Max != (v3.Vec{X: 1, Y: 4, Z: 5}) {
		t.Errorf("Bounds.Max = %v", bb.Max)
	}
}

func TestBuilderBoundsEmpty(t *testing.T) {
	bb := NewBuilder("empty").Build().Bounds
	if bb.Min != (v3.Vec{}) || bb.Max != (v3.Vec{}) {
		t.Errorf("empty Bounds = %+v, want zero box", bb)
	}
}

func TestBoundsOfMatchesBuild(t *testing.T) {
	b := NewBuilder("bounds")
	for _, p := range []v3.Vec{{X: 2, Y: 1, Z: -1}, {X: -1, Y: 3, Z: 0}} {
		b.AddVertex(p, v3.Vec{Y: 1})
	}
	m := b.Build()
	if got := BoundsOf(m.Vertices); got != m.Bounds {
		t.Errorf("BoundsOf = %+v, want %+v", got, m.Bounds)
	}
}

// --- Assemble ---

// stubSource is a GeometrySource with canned faces.
type stubSource struct {
	faces []Face
	err   error
}

func (s stubSource) Name() string           { return "stub" }
func (s stubSource) Faces() ([]Face, error) { return s.faces, s.err }

var _ GeometrySource = stubSource{}

func TestAssemblePropagatesErrors(t *testing.T) {
	sentinel := errors.New("boom")
	_, err := Assemble(stubSource{err: sentinel})
	if !errors.Is(err, sentinel) {
		t.Errorf("Assemble() error = %v, want wrapped sentinel", err)
	}
}

func TestMustAssemblePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustAssemble did not panic on a failing source")
		}
	}()
	MustAssemble(stubSource{err: errors.New("defect")})
}

func TestAssembleOrientsInwardFace(t *testing.T) {
	// Listed counter-clockwise seen from +Z, normal given as -Z.
	f := Face{
		Vertices: []v3.Vec{{X: 1, Z: 1}, {Y: 1, Z: 1}, {X: -1, Z: 1}},
		Normal:   v3.Vec{Z: -1},
	}
	m, err := Assemble(stubSource{faces: []Face{f}})
	if err != nil {
		t.Fatal(err)
	}
	if n := m.Vertices[0].Normal; n != [3]float32{0, 0, 1} {
		t.Errorf("normal = %v, want +Z", n)
	}
	if errs := Validate(m); HasErrors(errs) {
		t.Errorf("Validate() = %v", errs)
	}
}
