package scene

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks queries
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks queries
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
	Body     string             // which body has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] body %q: %s", e.Severity, e.Body, e.Message)
}

// convexTolerance is how far a vertex may sit in front of a face plane
// before the hull is reported as not convex.
const convexTolerance = 1e-6

// coincidentTolerance is the distance below which two bodies of the same
// shape are reported as stacked on top of each other.
const coincidentTolerance = 1e-9

// Validate runs all checks on the scene and returns the findings. An empty
// slice means the scene is valid. This function is read-only and never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOrder(s)...)
	errs = append(errs, validateHulls(s)...)
	errs = append(errs, validateCoincident(s)...)
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

// validateOrder checks that the name index and the insertion order agree.
func validateOrder(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(s.Order))
	for _, name := range s.Order {
		if seen[name] {
			errs = append(errs, ValidationError{
				Body:     name,
				Message:  "listed more than once in scene order",
				Severity: SeverityError,
			})
			continue
		}
		seen[name] = true
		if _, ok := s.Bodies[name]; !ok {
			errs = append(errs, ValidationError{
				Body:     name,
				Message:  "listed in scene order but not defined",
				Severity: SeverityError,
			})
		}
	}
	for name, b := range s.Bodies {
		if !seen[name] {
			errs = append(errs, ValidationError{
				Body:     name,
				Message:  "defined but missing from scene order",
				Severity: SeverityError,
			})
		}
		if b != nil && b.Name != name {
			errs = append(errs, ValidationError{
				Body:     name,
				Message:  fmt.Sprintf("registered under %q but named %q", name, b.Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateHulls re-checks every body's half-edge structure and convexity.
func validateHulls(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, b := range s.List() {
		if b.Hull == nil {
			errs = append(errs, ValidationError{
				Body:     b.Name,
				Message:  "body has no hull",
				Severity: SeverityError,
			})
			continue
		}
		if err := b.Hull.Validate(); err != nil {
			errs = append(errs, ValidationError{
				Body:     b.Name,
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
		if !b.Hull.IsConvex(convexTolerance) {
			errs = append(errs, ValidationError{
				Body:     b.Name,
				Message:  "hull is not convex, queries may report wrong results",
				Severity: SeverityWarning,
			})
		}
		if b.Hull.FaceCount() == 1 {
			errs = append(errs, ValidationError{
				Body:     b.Name,
				Message:  "flat hull with a single face, contacts are two-sided",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateCoincident warns about bodies of the same shape placed at the
// same position, which usually means a missing :at argument.
func validateCoincident(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, p := range s.Pairs() {
		if p.A.Shape.Kind == ShapePolyhedron || p.A.Shape != p.B.Shape {
			continue
		}
		d := p.A.Position().Sub(p.B.Position())
		if math.Abs(d.X) < coincidentTolerance && math.Abs(d.Y) < coincidentTolerance && math.Abs(d.Z) < coincidentTolerance {
			errs = append(errs, ValidationError{
				Body:     p.B.Name,
				Message:  fmt.Sprintf("coincides with body %q", p.A.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
