package scene

import (
	"fmt"
	"sort"
)

// ValidationSeverity indicates whether a finding blocks drawing or export.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
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

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID // zero for scene-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs the structural checks on s. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateNodes(s)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "cycle detected: node is its own ancestor",
				Severity: SeverityError,
			})
			return true
		}
		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling; reported by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range s.order {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID names an existing node.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range s.order {
		node, ok := s.Nodes[id]
		if !ok {
			continue
		}
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that NameIndex entries resolve and that no two nodes
// share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, name := range sortedKeys(s.NameIndex) {
		id := s.NameIndex[name]
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string]int)
	for _, id := range s.order {
		if n, ok := s.Nodes[id]; ok && n.Name != "" {
			nameToNodes[n.Name]++
		}
	}
	for _, name := range sortedKeys(nameToNodes) {
		if count := nameToNodes[name]; count > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, count),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateRoots checks that roots exist and warns about nodes unreachable
// from any root.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	reachable := make(map[NodeID]bool)
	var queue []NodeID
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, c := range s.Nodes[current].Children {
			if _, ok := s.Nodes[c]; ok && !reachable[c] {
				reachable[c] = true
				queue = append(queue, c)
			}
		}
	}

	for _, id := range s.order {
		if _, ok := s.Nodes[id]; ok && !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "node is not reachable from any root",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateNodes checks kind-specific payloads.
func validateNodes(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range s.order {
		n, ok := s.Nodes[id]
		if !ok {
			continue
		}
		switch n.Kind {
		case NodePrimitive:
			if n.Primitive == nil {
				errs = append(errs, ValidationError{NodeID: id, Message: "primitive node has no primitive", Severity: SeverityError})
				continue
			}
			if len(n.Children) > 0 {
				errs = append(errs, ValidationError{NodeID: id, Message: "primitive node has children", Severity: SeverityError})
			}
			if m := n.Primitive.Material; m != nil {
				if _, ok := s.Materials[m.Name]; !ok {
					errs = append(errs, ValidationError{
						NodeID:   id,
						Message:  fmt.Sprintf("material %q is not registered with the scene", m.Name),
						Severity: SeverityWarning,
					})
				}
			}
		case NodeGroup:
			if n.Primitive != nil {
				errs = append(errs, ValidationError{NodeID: id, Message: "group node carries a primitive", Severity: SeverityError})
			}
		default:
			errs = append(errs, ValidationError{NodeID: id, Message: fmt.Sprintf("unknown node kind %d", int(n.Kind)), Severity: SeverityError})
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
