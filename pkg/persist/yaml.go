package persist

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Compile-time interface checks.
var (
	_ Writer = (*YAMLWriter)(nil)
	_ Reader = (*YAMLReader)(nil)
)

// YAMLWriter accumulates fields into an ordered YAML mapping. Vectors and
// quaternions are written as flow sequences; quaternions as [x, y, z, w].
type YAMLWriter struct {
	root *yaml.Node
}

// NewYAMLWriter returns a writer with an empty mapping.
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{root: &yaml.Node{Kind: yaml.MappingNode}}
}

func (w *YAMLWriter) add(name string, v any, flow bool) error {
	val := &yaml.Node{}
	if err := val.Encode(v); err != nil {
		return fmt.Errorf("persist: encode %s: %w", name, err)
	}
	if flow {
		val.Style = yaml.FlowStyle
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
	w.root.Content = append(w.root.Content, key, val)
	return nil
}

func (w *YAMLWriter) WriteInt32(name string, v int32) error {
	return w.add(name, v, false)
}

func (w *YAMLWriter) WriteVector3(name string, v mgl64.Vec3) error {
	return w.add(name, []float64{v[0], v[1], v[2]}, true)
}

func (w *YAMLWriter) WriteQuaternion(name string, q mgl64.Quat) error {
	return w.add(name, []float64{q.V[0], q.V[1], q.V[2], q.W}, true)
}

func (w *YAMLWriter) WriteReference(name string, ref string) error {
	if ref == "" {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		null := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		w.root.Content = append(w.root.Content, key, null)
		return nil
	}
	return w.add(name, ref, false)
}

// Node returns the mapping built so far, for embedding in a larger document.
func (w *YAMLWriter) Node() *yaml.Node {
	return w.root
}

// Encode writes the mapping as a YAML document.
func (w *YAMLWriter) Encode(out io.Writer) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(w.root); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return enc.Close()
}

// Bytes returns the mapping as a YAML document.
func (w *YAMLWriter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAMLReader reads fields back from a YAML mapping in document order.
type YAMLReader struct {
	root *yaml.Node
	pos  int
}

// NewYAMLReader parses data, which must hold a single YAML mapping.
func NewYAMLReader(data []byte) (*YAMLReader, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	return NewYAMLNodeReader(&doc)
}

// NewYAMLNodeReader reads from an already parsed mapping or document node.
func NewYAMLNodeReader(n *yaml.Node) (*YAMLReader, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping, got node kind %d", ErrBadValue, n.Kind)
	}
	return &YAMLReader{root: n}, nil
}

// next returns the value of the next field after checking its name.
func (r *YAMLReader) next(name string) (*yaml.Node, error) {
	i := 2 * r.pos
	if i+1 >= len(r.root.Content) {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	if got := r.root.Content[i].Value; got != name {
		return nil, fmt.Errorf("%w: want %q, found %q", ErrFieldMismatch, name, got)
	}
	r.pos++
	return r.root.Content[i+1], nil
}

func (r *YAMLReader) floats(name string, n int) ([]float64, error) {
	v, err := r.next(name)
	if err != nil {
		return nil, err
	}
	var xs []float64
	if err := v.Decode(&xs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadValue, name, err)
	}
	if len(xs) != n {
		return nil, fmt.Errorf("%w: %s: want %d components, got %d", ErrBadValue, name, n, len(xs))
	}
	return xs, nil
}

func (r *YAMLReader) ReadInt32(name string) (int32, error) {
	v, err := r.next(name)
	if err != nil {
		return 0, err
	}
	var i int32
	if err := v.Decode(&i); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrBadValue, name, err)
	}
	return i, nil
}

func (r *YAMLReader) ReadVector3(name string) (mgl64.Vec3, error) {
	xs, err := r.floats(name, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{xs[0], xs[1], xs[2]}, nil
}

func (r *YAMLReader) ReadQuaternion(name string) (mgl64.Quat, error) {
	xs, err := r.floats(name, 4)
	if err != nil {
		return mgl64.Quat{}, err
	}
	return mgl64.Quat{W: xs[3], V: mgl64.Vec3{xs[0], xs[1], xs[2]}}, nil
}

func (r *YAMLReader) ReadReference(name string) (string, error) {
	v, err := r.next(name)
	if err != nil {
		return "", err
	}
	var ref *string
	if err := v.Decode(&ref); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadValue, name, err)
	}
	if ref == nil {
		return "", nil
	}
	return *ref, nil
}
