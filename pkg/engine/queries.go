package engine

import (
	"fmt"
	"strconv"

	"github.com/chazu/hullsat/pkg/contact"
	"github.com/chazu/hullsat/pkg/sat"
	"github.com/chazu/hullsat/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// registerQueryBuiltins installs the scene queries. Every query runs
// against the bodies placed so far and is recorded as a probe on the scene.
func registerQueryBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (colliding "a" "b")
	// -----------------------------------------------------------------------
	env.AddFunction("colliding", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := bodyPair(s, name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		hit := sat.IsCollidingWithConfig(a.Transform, a.Hull, b.Transform, b.Hull, s.Defaults.Contact.SAT)
		s.AddProbe(pairQuery(name, a, b), strconv.FormatBool(hit))
		return &zygo.SexpBool{Val: hit}, nil
	})

	// -----------------------------------------------------------------------
	// (separation "a" "b")
	// -----------------------------------------------------------------------
	env.AddFunction("separation", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := bodyPair(s, name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		d := sat.Query(a.Transform, a.Hull, b.Transform, b.Hull, s.Defaults.Contact.SAT).Separation()
		s.AddProbe(pairQuery(name, a, b), formatFloat(d))
		return &zygo.SexpFloat{Val: d}, nil
	})

	// -----------------------------------------------------------------------
	// (contact-count "a" "b")
	// -----------------------------------------------------------------------
	env.AddFunction("contact_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := bodyPair(s, "contact-count", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		n := 0
		if m, ok := contact.GenerateWithConfig(a.Transform, a.Hull, b.Transform, b.Hull, s.Defaults.Contact); ok {
			n = len(m.Points)
		}
		s.AddProbe(pairQuery("contact-count", a, b), strconv.Itoa(n))
		return &zygo.SexpInt{Val: int64(n)}, nil
	})

	// -----------------------------------------------------------------------
	// (contains "a" (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("contains", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b, p, err := bodyPoint(s, name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		in := sat.Contains(b.Transform, b.Hull, p)
		s.AddProbe(pointQuery(name, b, p), strconv.FormatBool(in))
		return &zygo.SexpBool{Val: in}, nil
	})

	// -----------------------------------------------------------------------
	// (closest-point "a" (vec3 5 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("closest_point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b, p, err := bodyPoint(s, "closest-point", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		c := sat.ClosestPoint(b.Transform, b.Hull, p)
		res := vec3Sexp(c)
		s.AddProbe(pointQuery("closest-point", b, p), res.SexpString(nil))
		return res, nil
	})
}

// bodyPair resolves the two body arguments of a pair query.
func bodyPair(s *scene.Scene, query string, args []zygo.Sexp) (*scene.Body, *scene.Body, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s requires exactly 2 bodies, got %d arguments", query, len(args))
	}
	a, err := toBody(s, args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", query, err)
	}
	b, err := toBody(s, args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", query, err)
	}
	return a, b, nil
}

// bodyPoint resolves the body and point arguments of a point query.
func bodyPoint(s *scene.Scene, query string, args []zygo.Sexp) (*scene.Body, v3.Vec, error) {
	if len(args) != 2 {
		return nil, v3.Vec{}, fmt.Errorf("%s requires a body and a point, got %d arguments", query, len(args))
	}
	b, err := toBody(s, args[0])
	if err != nil {
		return nil, v3.Vec{}, fmt.Errorf("%s: %w", query, err)
	}
	p, err := toVec3(args[1])
	if err != nil {
		return nil, v3.Vec{}, fmt.Errorf("%s: point: %w", query, err)
	}
	return b, p, nil
}

func pairQuery(query string, a, b *scene.Body) string {
	return fmt.Sprintf("(%s %q %q)", query, a.Name, b.Name)
}

func pointQuery(query string, b *scene.Body, p v3.Vec) string {
	return fmt.Sprintf("(%s %q (vec3 %g %g %g))", query, b.Name, p.X, p.Y, p.Z)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
