package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Long:  "Print every item in the content catalog, sorted by name, with its kind and properties.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, it := range cat.Items() {
		keys := make([]string, 0, len(it.Properties))
		for k := range it.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		props := make([]string, 0, len(keys))
		for _, k := range keys {
			props = append(props, fmt.Sprintf("%s=%v", k, it.Properties[k]))
		}
		fmt.Fprintf(out, "%-14s %-10s %s\n", it.Name, it.Kind, strings.Join(props, " "))
	}
	return nil
}
