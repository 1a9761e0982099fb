// Command polyhedra generates, inspects and exports procedural convex
// solids, either one at a time or from scene scripts.
package main

import (
	"log"
	"os"

	"github.com/chazu/polyhedra/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogPath string

var rootCmd = &cobra.Command{
	Use:           "polyhedra",
	Short:         "Generate and export procedural polyhedra",
	Long:          "Build tetrahedra, hexahedra, octahedra, dodecahedra and quads, compose them with scene scripts, and export the result.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Content catalog YAML (defaults to the built-in catalog)")
}

// loadCatalog returns the catalog selected by --catalog.
func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(catalogPath)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("polyhedra: ")

	if err := rootCmd.Execute(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
