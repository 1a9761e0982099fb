// Package tessellate walks a scene and bakes every placed primitive into a
// world-space triangle mesh. One mesh is produced per placement.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularTransform is returned for a placement whose world matrix
// collapses space (a zero scale component), which leaves normals undefined.
var ErrSingularTransform = errors.New("tessellate: singular transform")

const detEpsilon = 1e-12

// Tessellate walks the scene from its roots and returns one world-space mesh
// per primitive placement. Primitives that are not initialized are generated
// on the fly; the scene is never mutated.
func Tessellate(s *scene.Scene) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	err := s.Walk(func(n *scene.Node, world mgl64.Mat4) error {
		if n.Kind != scene.NodePrimitive {
			return nil
		}
		if n.Primitive == nil {
			return fmt.Errorf("tessellate: primitive node %s has no primitive", n.ID.Short())
		}
		local, err := localMesh(n.Primitive)
		if err != nil {
			return fmt.Errorf("tessellate: node %s: %w", n.Label(), err)
		}
		m, err := Bake(local, world, n.Label())
		if err != nil {
			return fmt.Errorf("tessellate: node %s: %w", n.Label(), err)
		}
		meshes = append(meshes, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meshes, nil
}

func localMesh(p *scene.Primitive) (*kernel.Mesh, error) {
	if m := p.Mesh(); m != nil {
		return m, nil
	}
	return kernel.Assemble(p.Source())
}

// Bake transforms m by world. Positions take the full matrix; normals take
// the inverse transpose of its upper 3x3 and are renormalized. A mirroring
// matrix reverses every triangle so winding stays clockwise seen from the
// outside.
func Bake(m *kernel.Mesh, world mgl64.Mat4, name string) (*kernel.Mesh, error) {
	linear := world.Mat3()
	det := linear.Det()
	if math.Abs(det) < detEpsilon {
		return nil, fmt.Errorf("%w: determinant %g", ErrSingularTransform, det)
	}
	normalMat := linear.Inv().Transpose()
	mirror := det < 0

	b := kernel.NewBuilder(name)
	for _, v := range m.Vertices {
		p := mgl64.TransformCoordinate(toMgl(v.Pos()), world)
		n := normalMat.Mul3x1(toMgl(v.Norm())).Normalize()
		b.AddVertex(toV3(p), toV3(n))
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if mirror {
			i1, i2 = i2, i1
		}
		if err := b.AddTriangle(i0, i1, i2); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Merge concatenates meshes into one named mesh. It fails with
// kernel.ErrIndexOutOfRange once the combined vertex count no longer fits
// 16-bit indices.
func Merge(name string, meshes []*kernel.Mesh) (*kernel.Mesh, error) {
	b := kernel.NewBuilder(name)
	for _, m := range meshes {
		base := b.CurrentVertex()
		for _, idx := range m.Indices {
			if err := b.AddIndex(base + int(idx)); err != nil {
				return nil, fmt.Errorf("tessellate: merge %s: %w", m.PartName, err)
			}
		}
		for _, v := range m.Vertices {
			b.AddVertex(v.Pos(), v.Norm())
		}
	}
	return b.Build(), nil
}

func toMgl(v v3.Vec) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }
func toV3(v mgl64.Vec3) v3.Vec   { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }
