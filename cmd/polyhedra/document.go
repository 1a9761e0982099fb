package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chazu/polyhedra/pkg/catalog"
	"github.com/chazu/polyhedra/pkg/kernel/platonic"
	"github.com/chazu/polyhedra/pkg/persist"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var errBadDocument = errors.New("invalid scene document")

// sceneDoc is the on-disk form of a scene. Node state is the field list
// written by Primitive.Save for primitives, and the bare transform fields
// for groups.
type sceneDoc struct {
	Materials []*scene.Material `yaml:"materials"`
	Nodes     []nodeDoc         `yaml:"nodes"`
	Roots     []string          `yaml:"roots"`
}

type nodeDoc struct {
	ID       string    `yaml:"id"`
	Kind     string    `yaml:"kind"`
	Name     string    `yaml:"name,omitempty"`
	Source   string    `yaml:"source,omitempty"`
	Children []string  `yaml:"children,omitempty"`
	State    yaml.Node `yaml:"state"`
}

// saveScene writes s as a YAML document. Nodes are written in walk order
// from the roots; unreachable nodes are dropped.
func saveScene(out io.Writer, s *scene.Scene) error {
	doc := sceneDoc{}
	for _, name := range s.MaterialNames() {
		doc.Materials = append(doc.Materials, s.Materials[name])
	}

	seen := make(map[scene.NodeID]bool)
	err := s.Walk(func(n *scene.Node, _ mgl64.Mat4) error {
		if seen[n.ID] {
			return nil
		}
		seen[n.ID] = true

		nd := nodeDoc{ID: string(n.ID), Kind: n.Kind.String(), Name: n.Name}
		for _, c := range n.Children {
			nd.Children = append(nd.Children, string(c))
		}
		w := persist.NewYAMLWriter()
		if n.Primitive != nil {
			nd.Source = n.Primitive.Source().Name()
			if err := n.Primitive.Save(w); err != nil {
				return err
			}
		} else if err := saveTransform(w, n.Transform); err != nil {
			return err
		}
		nd.State = *w.Node()
		doc.Nodes = append(doc.Nodes, nd)
		return nil
	})
	if err != nil {
		return err
	}
	for _, r := range s.Roots {
		doc.Roots = append(doc.Roots, string(r))
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// loadScene reads a document written by saveScene. Catalog materials are
// installed first so documents may refer to them without redefining them.
func loadScene(data []byte, cat *catalog.Catalog) (*scene.Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDocument, err)
	}

	s := scene.New()
	cat.Install(s)
	for _, m := range doc.Materials {
		if m == nil || m.Name == "" {
			return nil, fmt.Errorf("%w: material without a name", errBadDocument)
		}
		s.AddMaterial(m)
	}

	for i := range doc.Nodes {
		nd := &doc.Nodes[i]
		n, err := loadNode(nd, s)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.ID, err)
		}
		s.AddNode(n)
	}
	for _, r := range doc.Roots {
		s.AddRoot(scene.NodeID(r))
	}
	return s, nil
}

func loadNode(nd *nodeDoc, s *scene.Scene) (*scene.Node, error) {
	if nd.ID == "" {
		return nil, fmt.Errorf("%w: missing id", errBadDocument)
	}
	r, err := persist.NewYAMLNodeReader(&nd.State)
	if err != nil {
		return nil, err
	}
	id := scene.NodeID(nd.ID)

	switch nd.Kind {
	case scene.NodePrimitive.String():
		k, err := platonic.ParseKind(nd.Source)
		if err != nil {
			return nil, err
		}
		src, err := platonic.New(k)
		if err != nil {
			return nil, err
		}
		p := scene.NewPrimitive(nd.Name, src)
		if err := p.Load(r, s.Material); err != nil {
			return nil, err
		}
		n := scene.NewPrimitiveNode(id, p)
		n.Name = nd.Name
		return n, nil

	case scene.NodeGroup.String():
		children := make([]scene.NodeID, 0, len(nd.Children))
		for _, c := range nd.Children {
			children = append(children, scene.NodeID(c))
		}
		n := scene.NewGroupNode(id, nd.Name, children...)
		if err := loadTransform(r, n.Transform); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", errBadDocument, nd.Kind)
}

func saveTransform(w persist.Writer, t *scene.Transform) error {
	if err := w.WriteVector3("Position", t.Position()); err != nil {
		return err
	}
	if err := w.WriteQuaternion("Rotation", t.Rotation()); err != nil {
		return err
	}
	return w.WriteVector3("Scale", t.Scale())
}

func loadTransform(r persist.Reader, t *scene.Transform) error {
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
	t.Set(pos, rot, scale)
	return nil
}
