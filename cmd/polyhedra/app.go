package main

import (
	"fmt"
	"log"

	"github.com/chazu/polyhedra/pkg/catalog"
	"github.com/chazu/polyhedra/pkg/engine"
	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/kernel/platonic"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/chazu/polyhedra/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the catalog, the script engine and the tessellator together.
// Every command goes through it.
type App struct {
	catalog *catalog.Catalog
	engine  *engine.Engine
}

// MeshData is the JSON-serializable mesh format written by eval and export.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App whose scripts resolve items through cat. A nil cat
// means the built-in catalog.
func NewApp(cat *catalog.Catalog) *App {
	if cat == nil {
		cat = catalog.Default()
	}
	return &App{
		catalog: cat,
		engine:  engine.NewEngine(cat),
	}
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	_, meshes, result := a.render(source)
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, toMeshData(m, colorPalette[i%len(colorPalette)]))
	}
	return result
}

// render evaluates source into a scene and tessellates it. On failure the
// scene and meshes are nil and result.Errors says why.
func (a *App) render(source string) (*scene.Scene, []*kernel.Mesh, EvalResult) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate and validate the scene.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil, nil, result
	}
	for _, w := range res.Warnings {
		msg := w.Message
		if !w.NodeID.IsZero() {
			msg = fmt.Sprintf("node %s: %s", w.NodeID.Short(), w.Message)
		}
		result.Warnings = append(result.Warnings, EvalErrorData{Message: msg})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return nil, nil, result
	}

	// Step 2: Bake the scene into world-space meshes.
	meshes, err := tessellate.Tessellate(res.Scene)
	if err != nil {
		log.Printf("tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return nil, nil, result
	}
	return res.Scene, meshes, result
}

// Solid builds a one-node scene holding the named solid at the origin.
// Catalog items of the same name supply the material.
func (a *App) Solid(name string) (*scene.Scene, error) {
	k, err := platonic.ParseKind(name)
	if err != nil {
		return nil, err
	}
	s := scene.New()
	a.catalog.Install(s)

	var p *scene.Primitive
	if _, ok := a.catalog.Item(k.String()); ok {
		if p, err = a.catalog.Instantiate(k.String(), s); err != nil {
			return nil, err
		}
	} else {
		src, err := platonic.New(k)
		if err != nil {
			return nil, err
		}
		p = scene.NewPrimitive("", src)
	}

	n := scene.NewPrimitiveNode(s.NextID(k.String(), p.Name), p)
	s.AddNode(n)
	s.AddRoot(n.ID)
	return s, nil
}

func toMeshData(m *kernel.Mesh, color string) MeshData {
	indices := make([]uint32, len(m.Indices))
	for i, idx := range m.Indices {
		indices[i] = uint32(idx)
	}
	return MeshData{
		Vertices: m.Positions(),
		Normals:  m.Normals(),
		Indices:  indices,
		PartName: m.PartName,
		Color:    color,
	}
}
