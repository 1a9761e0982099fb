package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/persist"
	"github.com/deadsy/sdfx/sdf"
)

// saveVersion is the first field written by Primitive.Save.
const saveVersion = 1

var (
	ErrAlreadyInitialized = errors.New("scene: primitive already initialized")
	ErrNotInitialized     = errors.New("scene: primitive not initialized")
	ErrUnsupportedVersion = errors.New("scene: unsupported save version")
)

// GeometryVisitor receives a primitive's buffers when it is drawn.
// primitiveCount is the number of triangles in the index list.
type GeometryVisitor interface {
	SetVertices(owner *Primitive, vertices []kernel.VertexPositionNormal, indices []uint16, primitiveCount int)
}

// Primitive is one placed instance of a generated solid. Its mesh is built
// and uploaded once, by Initialize, and is immutable afterwards.
type Primitive struct {
	*Transform

	Name     string
	Material *Material

	source kernel.GeometrySource

	mu   sync.Mutex
	mesh *kernel.Mesh
}

// NewPrimitive returns an uninitialized primitive with the identity
// transform. name defaults to the source name.
func NewPrimitive(name string, src kernel.GeometrySource) *Primitive {
	if name == "" {
		name = src.Name()
	}
	return &Primitive{
		Transform: NewTransform(),
		Name:      name,
		source:    src,
	}
}

// Source returns the geometry source the mesh is generated from.
func (p *Primitive) Source() kernel.GeometrySource { return p.source }

// Initialize generates the mesh and hands it to up, which may be nil when no
// upload boundary exists. It may succeed only once per primitive; later
// calls return ErrAlreadyInitialized. A failed generation or upload leaves
// the primitive uninitialized.
func (p *Primitive) Initialize(up kernel.Uploader) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mesh != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, p.Name)
	}
	m, err := kernel.Assemble(p.source)
	if err != nil {
		return fmt.Errorf("scene: initialize %s: %w", p.Name, err)
	}
	if up != nil {
		if err := up.Upload(m.Vertices, m.Indices); err != nil {
			return fmt.Errorf("scene: upload %s: %w", p.Name, err)
		}
	}
	p.mesh = m
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (p *Primitive) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mesh != nil
}

// Mesh returns the generated mesh, or nil before Initialize.
func (p *Primitive) Mesh() *kernel.Mesh {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mesh
}

// BoundingBox returns the local-space box computed at initialization. It is
// the zero box before Initialize.
func (p *Primitive) BoundingBox() sdf.Box3 {
	if m := p.Mesh(); m != nil {
		return m.Bounds
	}
	return sdf.Box3{}
}

// Draw passes the primitive's buffers to v.
func (p *Primitive) Draw(v GeometryVisitor) error {
	m := p.Mesh()
	if m == nil {
		return fmt.Errorf("%w: %s", ErrNotInitialized, p.Name)
	}
	v.SetVertices(p, m.Vertices, m.Indices, m.TriangleCount())
	return nil
}

// Save writes the version tag, position, rotation, scale and material
// reference, in that order.
func (p *Primitive) Save(w persist.Writer) error {
	material := ""
	if p.Material != nil {
		material = p.Material.Name
	}
	if err := w.WriteInt32("Version", saveVersion); err != nil {
		return err
	}
	if err := w.WriteVector3("Position", p.Position()); err != nil {
		return err
	}
	if err := w.WriteQuaternion("Rotation", p.Rotation()); err != nil {
		return err
	}
	if err := w.WriteVector3("Scale", p.Scale()); err != nil {
		return err
	}
	return w.WriteReference("Material", material)
}

// Load reads the fields written by Save and recomputes the transform.
// Material references are resolved with lookup; a nil lookup leaves the
// material unset.
func (p *Primitive) Load(r persist.Reader, lookup MaterialLookup) error {
	version, err := r.ReadInt32("Version")
	if err != nil {
		return err
	}
	if version != saveVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	pos, err := r.ReadVector3("Position")
	if err != nil {
		return err
	}
	rot, err := r.ReadQuaternion("Rotation")
	if err != nil {
		return err
	}
	scale, err := r.ReadVector3("Scale")
	if err != nil {
		return err
	}
	ref, err := r.ReadReference("Material")
	if err != nil {
		return err
	}

	var mat *Material
	if ref != "" && lookup != nil {
		mat, err = lookup(ref)
		if err != nil {
			return fmt.Errorf("scene: load %s: material: %w", p.Name, err)
		}
	}
	p.Transform.Set(pos, rot, scale)
	p.Material = mat
	return nil
}
