package main

import (
	"fmt"
	"io"

	"github.com/chazu/polyhedra/pkg/kernel"
	"github.com/chazu/polyhedra/pkg/kernel/platonic"
	"github.com/chazu/polyhedra/pkg/kernel/sdfx"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [kind...]",
	Short: "Describe generated solids",
	Long:  "Generate each named solid (all of them when none is given) and print its buffer sizes, bounds, inradius and any validation findings.",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	kinds := platonic.Kinds
	if len(args) > 0 {
		kinds = nil
		for _, a := range args {
			k, err := platonic.ParseKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
	}
	for _, k := range kinds {
		src, err := platonic.New(k)
		if err != nil {
			return err
		}
		m, err := kernel.Assemble(src)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		describe(cmd.OutOrStdout(), m)
	}
	return nil
}

// describe prints one mesh summary.
func describe(out io.Writer, m *kernel.Mesh) {
	fmt.Fprintf(out, "%s\n", m.PartName)
	fmt.Fprintf(out, "  vertices:  %d\n", m.VertexCount())
	fmt.Fprintf(out, "  indices:   %d (%d triangles)\n", len(m.Indices), m.TriangleCount())
	fmt.Fprintf(out, "  bounds:    (%.4f, %.4f, %.4f) - (%.4f, %.4f, %.4f)\n",
		m.Bounds.Min.X, m.Bounds.Min.Y, m.Bounds.Min.Z,
		m.Bounds.Max.X, m.Bounds.Max.Y, m.Bounds.Max.Z)

	// Open shapes such as the quad have no interior.
	if solid, err := sdfx.NewConvexSolid(m); err == nil && solid.PlaneCount() > 3 {
		fmt.Fprintf(out, "  inradius:  %.4f\n", solid.Inradius())
	}
	for _, e := range kernel.Validate(m) {
		fmt.Fprintf(out, "  %v\n", e)
	}
}
