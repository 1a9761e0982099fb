package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var evalJSON bool

var evalCmd = &cobra.Command{
	Use:   "eval [script]",
	Short: "Evaluate a scene script",
	Long:  "Evaluate a scene script (stdin when omitted or \"-\") and print the resulting meshes, warnings and errors.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEval,
}

var errEvalFailed = errors.New("evaluation failed")

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the full result, mesh buffers included, as JSON")
}

func runEval(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	source, err := readSource(path)
	if err != nil {
		return err
	}
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	app := NewApp(cat)
	out := cmd.OutOrStdout()

	if evalJSON {
		result := app.Evaluate(string(source))
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return errEvalFailed
		}
		return nil
	}

	_, meshes, result := app.render(string(source))
	for _, m := range meshes {
		fmt.Fprintln(out, meshSummary(m))
	}
	printFindings(out, "warning", result.Warnings)
	printFindings(out, "error", result.Errors)
	if len(result.Errors) > 0 {
		return errEvalFailed
	}
	return nil
}

func printFindings(out io.Writer, label string, findings []EvalErrorData) {
	for _, f := range findings {
		if f.Line > 0 {
			fmt.Fprintf(out, "%s: line %d: %s\n", label, f.Line, f.Message)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", label, f.Message)
	}
}
