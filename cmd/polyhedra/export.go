package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/kernel/sdfx"
	"github.com/chazu/polyhedra/pkg/scene"
	"github.com/chazu/polyhedra/pkg/tessellate"
	"github.com/spf13/cobra"
)

var (
	exportKind   string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [script|scene.yaml]",
	Short: "Export a solid, a script or a saved scene",
	Long: `Export geometry as binary STL, JSON mesh data or a YAML scene document.

The input is either a single solid selected with --kind, a scene script, or a
scene document previously written with --format yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportKind, "kind", "k", "", "Export a single solid (tetrahedron, hexahedron, octahedron, dodecahedron, quad)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "stl", "Output format: stl, json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (stdout for json and yaml when empty)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	app := NewApp(cat)

	var s *scene.Scene
	name := exportKind
	switch {
	case exportKind != "" && len(args) > 0:
		return fmt.Errorf("use either --kind or an input file, not both")
	case exportKind != "":
		if s, err = app.Solid(exportKind); err != nil {
			return err
		}
	case len(args) == 1:
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		if s, err = app.loadInput(args[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("nothing to export: give --kind or an input file")
	}

	switch exportFormat {
	case "yaml":
		return writeOutput(cmd.OutOrStdout(), exportOut, func(w io.Writer) error {
			return saveScene(w, s)
		})

	case "json":
		meshes, err := tessellate.Tessellate(s)
		if err != nil {
			return err
		}
		data := make([]MeshData, 0, len(meshes))
		for i, m := range meshes {
			data = append(data, toMeshData(m, colorPalette[i%len(colorPalette)]))
		}
		return writeOutput(cmd.OutOrStdout(), exportOut, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		})

	case "stl":
		meshes, err := tessellate.Tessellate(s)
		if err != nil {
			return err
		}
		merged, err := tessellate.Merge(name, meshes)
		if err != nil {
			return err
		}
		path := exportOut
		if path == "" {
			path = strings.ToLower(name) + ".stl"
		}
		if err := sdfx.SaveSTL(path, merged); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d triangles)\n", path, merged.TriangleCount())
		return nil
	}
	return fmt.Errorf("unknown format %q (want stl, json or yaml)", exportFormat)
}

// loadInput reads a scene document (.yaml, .yml) or evaluates a script.
func (a *App) loadInput(path string) (*scene.Scene, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadScene(data, a.catalog)
	}

	s, _, result := a.render(string(data))
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", path, formatErrors(result.Errors))
	}
	return s, nil
}

// readSource reads path, or stdin for "-".
func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput calls write with path opened for writing, or with stdout when
// path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatErrors(errs []EvalErrorData) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Line > 0 {
			msgs = append(msgs, fmt.Sprintf("line %d: %s", e.Line, e.Message))
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// meshSummary is the one-line form used by eval.
func meshSummary(m *kernel.Mesh) string {
	return fmt.Sprintf("%-16s %5d vertices %5d triangles", m.PartName, m.VertexCount(), m.TriangleCount())
}
