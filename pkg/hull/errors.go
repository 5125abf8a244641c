package hull

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrDegenerateInput = errors.New("hull: degenerate input")
	ErrTopology        = errors.New("hull: inconsistent topology")
)

// DegenerateInputError reports input that cannot form a hull: too few
// unique vertices, or a face left with fewer than 3 vertices.
type DegenerateInputError struct {
	Face   int // -1 if not tied to a face
	Reason string
}

func (e DegenerateInputError) Error() string {
	if e.Face < 0 {
		return fmt.Sprintf("hull: degenerate input: %s", e.Reason)
	}
	return fmt.Sprintf("hull: degenerate input: face %d: %s", e.Face, e.Reason)
}

// Is makes errors.Is(err, ErrDegenerateInput) true.
func (e DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}

// TopologyError reports non-manifold or inconsistently wound input, for
// example two faces using the same directed edge.
type TopologyError struct {
	Origin int // directed edge origin vertex, -1 if unknown
	Dest   int // directed edge destination vertex, -1 if unknown
	Face   int
	Reason string
}

func (e TopologyError) Error() string {
	if e.Origin < 0 {
		return fmt.Sprintf("hull: topology: face %d: %s", e.Face, e.Reason)
	}
	return fmt.Sprintf("hull: topology: face %d, edge %d->%d: %s", e.Face, e.Origin, e.Dest, e.Reason)
}

// Is makes errors.Is(err, ErrTopology) true.
func (e TopologyError) Is(target error) bool {
	return target == ErrTopology
}
