package scene

import (
	"fmt"

	"github.com/chazu/hullsat/pkg/contact"
	"github.com/chazu/hullsat/pkg/hull"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Defaults contains scene-wide query settings.
type Defaults struct {
	Build   hull.BuildConfig `json:"build"`
	Contact contact.Config   `json:"contact"` // includes the SAT settings
}

// DefaultSettings returns the default build and contact settings.
func DefaultSettings() Defaults {
	return Defaults{
		Build:   hull.DefaultBuildConfig(),
		Contact: contact.DefaultConfig(),
	}
}

// Body is a named hull placed in the world.
type Body struct {
	Name      string         `json:"name"`
	Shape     Shape          `json:"shape"`
	Hull      *hull.Hull     `json:"-"`
	Transform hull.Transform `json:"-"`
}

// Position returns the world position of the body's local origin.
func (b *Body) Position() v3.Vec {
	return b.Transform.Position()
}

// WorldBounds returns the body's axis-aligned bounding box in world space.
func (b *Body) WorldBounds() sdf.Box3 {
	return b.Hull.Bounds(b.Transform)
}

// Pair is an unordered pair of distinct bodies. A precedes B in scene
// order.
type Pair struct {
	A, B *Body
}

// Probe records one query a script made against the scene and its
// printed result.
type Probe struct {
	Query  string `json:"query"`
	Result string `json:"result"`
}

// Scene is the top-level data structure produced by script evaluation.
// It is never mutated once evaluation finishes; each evaluation produces a
// new scene.
type Scene struct {
	Bodies   map[string]*Body `json:"bodies"`
	Order    []string         `json:"order"` // insertion order of body names
	Defaults Defaults         `json:"defaults"`
	Probes   []Probe          `json:"probes,omitempty"`
}

// New creates an empty Scene with default settings.
func New() *Scene {
	return &Scene{
		Bodies:   make(map[string]*Body),
		Defaults: DefaultSettings(),
	}
}

// AddBody adds a body to the scene. Names must be unique.
func (s *Scene) AddBody(b *Body) error {
	if b.Name == "" {
		return fmt.Errorf("scene: body has no name")
	}
	if _, dup := s.Bodies[b.Name]; dup {
		return fmt.Errorf("scene: duplicate body name %q", b.Name)
	}
	s.Bodies[b.Name] = b
	s.Order = append(s.Order, b.Name)
	return nil
}

// Lookup returns the body with the given name, or nil.
func (s *Scene) Lookup(name string) *Body {
	return s.Bodies[name]
}

// MustLookup returns the body with the given name, or panics.
func (s *Scene) MustLookup(name string) *Body {
	b := s.Lookup(name)
	if b == nil {
		panic(fmt.Sprintf("scene: no body named %q", name))
	}
	return b
}

// List returns all bodies in insertion order.
func (s *Scene) List() []*Body {
	bodies := make([]*Body, 0, len(s.Order))
	for _, name := range s.Order {
		if b := s.Bodies[name]; b != nil {
			bodies = append(bodies, b)
		}
	}
	return bodies
}

// Pairs returns every unordered pair of bodies, ordered by the position
// of the first and then the second body.
func (s *Scene) Pairs() []Pair {
	bodies := s.List()
	var pairs []Pair
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			pairs = append(pairs, Pair{A: bodies[i], B: bodies[j]})
		}
	}
	return pairs
}

// AddProbe appends a query record.
func (s *Scene) AddProbe(query, result string) {
	s.Probes = append(s.Probes, Probe{Query: query, Result: result})
}

// BodyCount returns the number of bodies.
func (s *Scene) BodyCount() int {
	return len(s.Bodies)
}
