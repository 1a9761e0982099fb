package kernel

import (
	"fmt"
	"math"
)

// Tolerance is the float tolerance used by Validate.
const Tolerance = 1e-4

// ValidationSeverity indicates whether a finding makes the mesh unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // mesh must not be uploaded
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding. Triangle is -1 for
// mesh-level findings.
type ValidationError struct {
	Triangle int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Triangle < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] triangle %d: %s", e.Severity, e.Triangle, e.Message)
}

// Validate checks the invariants every generated solid must satisfy:
// whole triangles, indices in range, unit normals pointing away from the
// origin, clockwise winding seen from the normal side, and bounds that
// enclose every vertex. An empty slice means the mesh is valid. Validate
// never mutates the mesh.
func Validate(m *Mesh) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateIndices(m)...)
	if len(errs) > 0 {
		// Triangle checks below index into Vertices.
		return errs
	}
	errs = append(errs, validateNormals(m)...)
	errs = append(errs, validateWinding(m)...)
	errs = append(errs, validateBounds(m)...)
	return errs
}

// HasErrors reports whether any finding has SeverityError.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateIndices(m *Mesh) []ValidationError {
	var errs []ValidationError
	if len(m.Indices)%3 != 0 {
		errs = append(errs, ValidationError{
			Triangle: -1,
			Message:  fmt.Sprintf("index count %d is not a multiple of 3", len(m.Indices)),
			Severity: SeverityError,
		})
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			errs = append(errs, ValidationError{
				Triangle: i / 3,
				Message:  fmt.Sprintf("index %d references vertex %d of %d", i, idx, len(m.Vertices)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNormals checks that each vertex normal has unit length and that
// the face it belongs to faces away from the origin.
func validateNormals(m *Mesh) []ValidationError {
	var errs []ValidationError
	for t := 0; t < m.TriangleCount(); t++ {
		for _, v := range m.Triangle(t) {
			n := v.Norm()
			if l := n.Length(); math.Abs(l-1) > Tolerance {
				errs = append(errs, ValidationError{
					Triangle: t,
					Message:  fmt.Sprintf("normal length %.6f, want 1", l),
					Severity: SeverityError,
				})
				break
			}
			if d := v.Pos().Dot(n); d < -Tolerance {
				errs = append(errs, ValidationError{
					Triangle: t,
					Message:  fmt.Sprintf("normal points towards the origin (dot %.6f)", d),
					Severity: SeverityError,
				})
				break
			}
		}
	}
	return errs
}

// validateWinding checks that each triangle is clockwise when viewed from
// the side its normal points to. Degenerate triangles are reported as
// warnings.
func validateWinding(m *Mesh) []ValidationError {
	var errs []ValidationError
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		p0, p1, p2 := tri[0].Pos(), tri[1].Pos(), tri[2].Pos()
		rh := p1.Sub(p0).Cross(p2.Sub(p0))
		if rh.Length() < Tolerance*Tolerance {
			errs = append(errs, ValidationError{
				Triangle: t,
				Message:  "degenerate triangle",
				Severity: SeverityWarning,
			})
			continue
		}
		if rh.Dot(tri[0].Norm()) > 0 {
			errs = append(errs, ValidationError{
				Triangle: t,
				Message:  "counter-clockwise winding for its normal",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validateBounds(m *Mesh) []ValidationError {
	var errs []ValidationError
	bb := m.Bounds
	for i, v := range m.Vertices {
		p := v.Pos()
		if p.X < bb.Min.X || p.Y < bb.Min.Y || p.Z < bb.Min.Z ||
			p.X > bb.Max.X || p.Y > bb.Max.Y || p.Z > bb.Max.Z {
			errs = append(errs, ValidationError{
				Triangle: -1,
				Message:  fmt.Sprintf("vertex %d lies outside the bounding box", i),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
