package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Empty input: empty string -> 0 meshes, 0 errors, non-nil slices.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// JSON should serialize as [] not null.
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp(nil)

	// Valid code on line 1, broken code on line 2.
	result := app.Evaluate("(+ 1 2)\n(tetrahedron \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

// ---------------------------------------------------------------------------
// Undefined part reference -> eval error naming the part.
// ---------------------------------------------------------------------------

func TestE2EUndefinedPartReference(t *testing.T) {
	app := NewApp(nil)

	source := `
(hexahedron "earth")

(assembly "unit"
  (place (part "nonexistent") :at (vec3 0 0 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined part reference")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "nonexistent") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error mentioning 'nonexistent', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Degenerate transforms: zero scale cannot be baked.
// ---------------------------------------------------------------------------

func TestE2EZeroScale(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(octahedron "flat" :scale (vec3 1 0 1))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a singular transform")
	}
	if !strings.Contains(result.Errors[0].Message, "tessellation failed") {
		t.Errorf("message = %q, want a tessellation failure", result.Errors[0].Message)
	}
}

func TestE2ELargeScale(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(hexahedron "big" :scale 10000)`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	maxX := float32(0)
	for i := 0; i < len(result.Meshes[0].Vertices); i += 3 {
		if x := result.Meshes[0].Vertices[i]; x > maxX {
			maxX = x
		}
	}
	if maxX != 5000 {
		t.Errorf("max x = %v, want 5000", maxX)
	}
}

// ---------------------------------------------------------------------------
// Rapid evaluation: no panics between success and error states.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// zygomys has global state that is not safe for concurrent sandbox
	// creation, so calls are sequential.
	app := NewApp(nil)

	sources := []string{
		`(tetrahedron "ok")`,
		`(dodecahedron "broken"`,
		``,
		`(part "missing")`,
		`(octahedron "also-ok" :at (vec3 1 1 1))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(quad "fine")`,
		`(undefined-func 1 2 3)`,
		`(hexahedron "last")`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}

// ---------------------------------------------------------------------------
// Multiple assemblies sharing a part -> one mesh per placement.
// ---------------------------------------------------------------------------

func TestE2EMultipleAssembliesWithSharedParts(t *testing.T) {
	app := NewApp(nil)

	source := `
(tetrahedron "fire")
(assembly "left"  (place (part "fire") :at (vec3 -5 0 0)))
(assembly "right" (place (part "fire") :at (vec3 5 0 0)))
`
	result := app.Evaluate(source)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if m.PartName != "fire" {
			t.Errorf("PartName = %q, want fire", m.PartName)
		}
	}
	if result.Meshes[0].Color == result.Meshes[1].Color {
		t.Error("placements should get distinct colors")
	}
}

// ---------------------------------------------------------------------------
// Comments only and validation warnings.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(";; nothing here\n; at all\n")

	if len(result.Errors) != 0 || len(result.Meshes) != 0 {
		t.Errorf("got %d errors and %d meshes, want none", len(result.Errors), len(result.Meshes))
	}
}

func TestE2EWarningsKeepMeshes(t *testing.T) {
	app := NewApp(nil)
	result := app.Evaluate(`(tetrahedron "twin") (quad "twin")`)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "duplicate name") {
		t.Errorf("warnings = %v, want one duplicate name warning", result.Warnings)
	}
	if len(result.Meshes) != 2 {
		t.Errorf("expected 2 meshes, got %d", len(result.Meshes))
	}
}
