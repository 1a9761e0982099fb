package scene

import "github.com/go-gl/mathgl/mgl64"

// WorldTransformer is anything that can act as a parent in the scene: it
// exposes its world matrix.
type WorldTransformer interface {
	WorldTransform() mgl64.Mat4
}

// Transform is a local position, rotation and non-uniform scale together
// with the derived local and world matrices.
//
// The local matrix applies scale, then rotation, then translation. The world
// matrix is the local matrix followed by the parent's world matrix. Both are
// recomputed by every setter and by UpdateWorldTransform, so readers never
// see stale state. Use NewTransform; the zero value has a zero scale.
type Transform struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	local       mgl64.Mat4
	parentWorld mgl64.Mat4
	world       mgl64.Mat4
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	t := &Transform{
		rotation:    mgl64.QuatIdent(),
		scale:       mgl64.Vec3{1, 1, 1},
		parentWorld: mgl64.Ident4(),
	}
	t.updateLocal()
	return t
}

func (t *Transform) Position() mgl64.Vec3 { return t.position }
func (t *Transform) Rotation() mgl64.Quat { return t.rotation }
func (t *Transform) Scale() mgl64.Vec3    { return t.scale }

func (t *Transform) SetPosition(v mgl64.Vec3) {
	t.position = v
	t.updateLocal()
}

// SetRotation sets the rotation. q is expected to be a unit quaternion.
func (t *Transform) SetRotation(q mgl64.Quat) {
	t.rotation = q
	t.updateLocal()
}

func (t *Transform) SetScale(v mgl64.Vec3) {
	t.scale = v
	t.updateLocal()
}

// Set replaces all three components at once, as done after loading.
func (t *Transform) Set(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) {
	t.position, t.rotation, t.scale = position, rotation, scale
	t.updateLocal()
}

// LocalTransform returns scale, then rotation, then translation as one
// column-major matrix.
func (t *Transform) LocalTransform() mgl64.Mat4 { return t.local }

// WorldTransform implements WorldTransformer.
func (t *Transform) WorldTransform() mgl64.Mat4 { return t.world }

// UpdateWorldTransform takes the parent's current world matrix and
// recomputes this transform's world matrix. A nil parent means the scene
// root.
func (t *Transform) UpdateWorldTransform(parent WorldTransformer) {
	if parent == nil {
		t.SetParentWorld(mgl64.Ident4())
		return
	}
	t.SetParentWorld(parent.WorldTransform())
}

// SetParentWorld is UpdateWorldTransform for a bare matrix.
func (t *Transform) SetParentWorld(m mgl64.Mat4) {
	t.parentWorld = m
	t.world = m.Mul4(t.local)
}

func (t *Transform) updateLocal() {
	s := mgl64.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	r := t.rotation.Mat4()
	tr := mgl64.Translate3D(t.position[0], t.position[1], t.position[2])
	t.local = tr.Mul4(r).Mul4(s)
	t.world = t.parentWorld.Mul4(t.local)
}
