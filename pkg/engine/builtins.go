package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/polyhedra/pkg/catalog"
	"github.com/chazu/polyhedra/pkg/kernel/platonic"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMaterial wraps a scene material so it can be passed between builtins.
type sexpMaterial struct {
	m *scene.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material %q)", m.m.Name)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a scene.NodeID.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an mgl64.Vec3.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpQuat wraps a unit rotation quaternion.
type sexpQuat struct {
	q mgl64.Quat
}

func (r *sexpQuat) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rotation %g %g %g %g)", r.q.V[0], r.q.V[1], r.q.V[2], r.q.W)
}
func (r *sexpQuat) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			// Trailing keyword with no value.
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toScale accepts a vec3 or a single number for uniform scale.
func toScale(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("expected vec3 or number, got %T (%s)", s, s.SexpString(nil))
	}
	return mgl64.Vec3{f, f, f}, nil
}

func toQuat(s zygo.Sexp) (mgl64.Quat, error) {
	if r, ok := s.(*sexpQuat); ok {
		return r.q, nil
	}
	return mgl64.Quat{}, fmt.Errorf("expected rotation, got %T (%s)", s, s.SexpString(nil))
}

func toMaterial(s zygo.Sexp) (*scene.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// applyPlacement sets :at, :scale and :rotation on t.
func applyPlacement(fn string, t *scene.Transform, pa kwArgs) error {
	if v, ok := pa.kw["at"]; ok {
		pos, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: at: %w", fn, err)
		}
		t.SetPosition(pos)
	}
	if v, ok := pa.kw["rotation"]; ok {
		q, err := toQuat(v)
		if err != nil {
			return fmt.Errorf("%s: rotation: %w", fn, err)
		}
		t.SetRotation(q)
	}
	if v, ok := pa.kw["scale"]; ok {
		sc, err := toScale(v)
		if err != nil {
			return fmt.Errorf("%s: scale: %w", fn, err)
		}
		t.SetScale(sc)
	}
	return nil
}

// optionalName returns the first positional argument as a node name, if
// present.
func optionalName(fn string, pa kwArgs) (string, error) {
	if len(pa.positional) == 0 {
		return "", nil
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return name, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL into a zygomys environment. The
// builtins populate s during evaluation and resolve items through cat.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, cat *catalog.Catalog) {
	b := &builder{s: s, cat: cat}

	// (material "name" :lighting true)
	env.AddFunction("material", b.material)

	// (vec3 1 2 3)
	env.AddFunction("vec3", b.vec3)

	// (rotation :axis (vec3 0 1 0) :degrees 90)
	env.AddFunction("rotation", b.rotation)

	// (dodecahedron "name" :material m :at (vec3 ..) :scale 2 :rotation r)
	for _, k := range platonic.Kinds {
		env.AddFunction(strings.ToLower(k.String()), b.solid(k))
	}

	// (instance "CatalogItem" "name" :at ...)
	env.AddFunction("instance", b.instance)

	// (part "name")
	env.AddFunction("part", b.part)

	// (place (part "d") :at (vec3 0 0 2))
	env.AddFunction("place", b.place)

	// (assembly "name" (place ...) (place ...) ...)
	env.AddFunction("assembly", b.assembly)
}

// builder carries the scene under construction into the builtins.
type builder struct {
	s   *scene.Scene
	cat *catalog.Catalog
}

func (b *builder) material(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("material requires a name argument")
	}
	matName, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
	}

	m, err := b.s.Material(matName)
	if err != nil {
		m = &scene.Material{Name: matName}
		b.s.AddMaterial(m)
	}
	if v, ok := pa.kw["lighting"]; ok {
		lit, err := toBool(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: lighting: %w", err)
		}
		m.LightingEnabled = lit
	}
	return &sexpMaterial{m: m}, nil
}

func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var v mgl64.Vec3
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		v[i] = f
	}
	return &sexpVec3{vec: v}, nil
}

func (b *builder) rotation(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	axis := mgl64.Vec3{0, 1, 0}
	if v, ok := pa.kw["axis"]; ok {
		a, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotation: axis: %w", err)
		}
		if a.Len() == 0 {
			return zygo.SexpNull, fmt.Errorf("rotation: axis must be non-zero")
		}
		axis = a.Normalize()
	}
	degrees := 0.0
	if v, ok := pa.kw["degrees"]; ok {
		d, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotation: degrees: %w", err)
		}
		degrees = d
	}
	return &sexpQuat{q: mgl64.QuatRotate(mgl64.DegToRad(degrees), axis)}, nil
}

// solid returns the builtin for one platonic kind. The catalog item of the
// same name supplies the default material when present.
func (b *builder) solid(k platonic.Kind) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	fn := strings.ToLower(k.String())
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var p *scene.Primitive
		if _, ok := b.cat.Item(k.String()); ok {
			var err error
			if p, err = b.cat.Instantiate(k.String(), b.s); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
		} else {
			src, err := platonic.New(k)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			p = scene.NewPrimitive("", src)
		}
		return b.addPrimitive(fn, p, parseArgs(args))
	}
}

func (b *builder) instance(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("instance requires a catalog item name")
	}
	item, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("instance: item: %w", err)
	}
	p, err := b.cat.Instantiate(item, b.s)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("instance: %w", err)
	}
	pa.positional = pa.positional[1:]
	return b.addPrimitive("instance", p, pa)
}

// addPrimitive applies the optional name, material and placement and adds
// the primitive to the scene.
func (b *builder) addPrimitive(fn string, p *scene.Primitive, pa kwArgs) (zygo.Sexp, error) {
	nodeName, err := optionalName(fn, pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: material: %w", fn, err)
		}
		p.Material = m
	}
	if err := applyPlacement(fn, p.Transform, pa); err != nil {
		return zygo.SexpNull, err
	}
	if nodeName != "" {
		p.Name = nodeName
	}

	n := scene.NewPrimitiveNode(b.s.NextID(fn, nodeName), p)
	n.Name = nodeName
	b.s.AddNode(n)
	return &sexpNodeRef{id: n.ID, name: nodeName}, nil
}

func (b *builder) part(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("part requires a name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
	}
	n := b.s.Lookup(partName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("part: no node named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, name: partName}, nil
}

func (b *builder) place(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("place requires a node reference as first argument")
	}
	child, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: %w", err)
	}

	n := scene.NewGroupNode(b.s.NextID("place", child.name), "", child.id)
	if err := applyPlacement("place", n.Transform, pa); err != nil {
		return zygo.SexpNull, err
	}
	b.s.AddNode(n)
	return &sexpNodeRef{id: n.ID}, nil
}

func (b *builder) assembly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
	}
	asmName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
	}

	var children []scene.NodeID
	for i, arg := range args[1:] {
		items := []zygo.Sexp{arg}
		if _, isRef := arg.(*sexpNodeRef); !isRef {
			if items, err = sexpListToSlice(arg); err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: %w", i+1, err)
			}
		}
		for _, item := range items {
			ref, err := toNodeRef(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: %w", i+1, err)
			}
			children = append(children, ref.id)
		}
	}

	n := scene.NewGroupNode(b.s.NextID("assembly", asmName), asmName, children...)
	b.s.AddNode(n)
	b.s.AddRoot(n.ID)
	return &sexpNodeRef{id: n.ID, name: asmName}, nil
}
