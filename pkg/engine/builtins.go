package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/kernel"
	"github.com/chazu/hullsat/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSegments is the ring resolution of round primitives when a script
// does not pass :segments.
const DefaultSegments = 16

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a built hull so it can be returned from a shape builtin
// and consumed by `body`.
type sexpShape struct {
	shape scene.Shape
	hull  *hull.Hull
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d faces)", s.shape.Kind, s.hull.FaceCount())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpBodyRef names a body placed in the scene.
type sexpBodyRef struct {
	name string
}

func (b *sexpBodyRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(body %q)", b.name)
}
func (b *sexpBodyRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// floatArg returns keyword key as a number, or def when absent.
func (a kwArgs) floatArg(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// intArg returns keyword key as an integer, or def when absent.
func (a kwArgs) intArg(key string, def int) (int, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	i, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

// vecArg returns keyword key as a vector; ok is false when absent.
func (a kwArgs) vecArg(key string) (v v3.Vec, ok bool, err error) {
	s, present := a.kw[key]
	if !present {
		return v3.Vec{}, false, nil
	}
	v, err = toVec3(s)
	if err != nil {
		return v3.Vec{}, true, fmt.Errorf("%s: %w", key, err)
	}
	return v, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toQuat reads a (list w x y z) quaternion.
func toQuat(s zygo.Sexp) (mgl64.Quat, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return mgl64.Quat{}, err
	}
	if len(items) != 4 {
		return mgl64.Quat{}, fmt.Errorf("expected (list w x y z), got %d values", len(items))
	}
	var c [4]float64
	for i, item := range items {
		if c[i], err = toFloat64(item); err != nil {
			return mgl64.Quat{}, fmt.Errorf("component %d: %w", i, err)
		}
	}
	q := mgl64.Quat{W: c[0], V: mgl64.Vec3{c[1], c[2], c[3]}}
	if q.Len() == 0 {
		return mgl64.Quat{}, fmt.Errorf("zero quaternion")
	}
	return q, nil
}

// toShape extracts a built shape.
func toShape(s zygo.Sexp) (*sexpShape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toBody resolves a body name or body reference against the scene.
func toBody(sc *scene.Scene, s zygo.Sexp) (*scene.Body, error) {
	var name string
	switch v := s.(type) {
	case *sexpBodyRef:
		name = v.name
	case *zygo.SexpStr:
		name = v.S
	default:
		return nil, fmt.Errorf("expected body name, got %T (%s)", s, s.SexpString(nil))
	}
	b := sc.Lookup(name)
	if b == nil {
		return nil, fmt.Errorf("no body named %q", name)
	}
	return b, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin is the signature zygomys expects for Go functions.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs all scene builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, k kernel.Kernel) {
	env.AddFunction("vec3", vec3Builtin)
	env.AddFunction("settings", settingsBuiltin(s))

	registerShapeBuiltins(env, s, k)

	env.AddFunction("body", bodyBuiltin(s))

	registerQueryBuiltins(env, s)
}

// -----------------------------------------------------------------------
// (vec3 1 2 3)
// -----------------------------------------------------------------------
func vec3Builtin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// -----------------------------------------------------------------------
// (settings :precision 3 :max-points 4 :edge-tolerance 0.005
//           :rel-tolerance 0.95 :abs-tolerance 0.005 :clip-tolerance 1e-6)
//
// Precision only affects shapes built after the call.
// -----------------------------------------------------------------------
func settingsBuiltin(s *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d := s.Defaults
		var err error

		if d.Build.Precision, err = pa.intArg("precision", d.Build.Precision); err != nil {
			return zygo.SexpNull, fmt.Errorf("settings: %w", err)
		}
		if d.Build.Precision < 0 || d.Build.Precision > 12 {
			return zygo.SexpNull, fmt.Errorf("settings: precision %d out of range 0..12", d.Build.Precision)
		}
		if d.Contact.MaxPoints, err = pa.intArg("max-points", d.Contact.MaxPoints); err != nil {
			return zygo.SexpNull, fmt.Errorf("settings: %w", err)
		}
		if d.Contact.MaxPoints < 0 {
			return zygo.SexpNull, fmt.Errorf("settings: max-points must be non-negative")
		}

		floats := []struct {
			key string
			dst *float64
		}{
			{"edge-tolerance", &d.Contact.SAT.EdgeParallelTolerance},
			{"rel-tolerance", &d.Contact.RelTolerance},
			{"abs-tolerance", &d.Contact.AbsTolerance},
			{"clip-tolerance", &d.Contact.ClipTolerance},
		}
		for _, f := range floats {
			if *f.dst, err = pa.floatArg(f.key, *f.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("settings: %w", err)
			}
			if *f.dst < 0 {
				return zygo.SexpNull, fmt.Errorf("settings: %s must be non-negative", f.key)
			}
		}

		s.Defaults = d
		return zygo.SexpNull, nil
	}
}

// -----------------------------------------------------------------------
// (body "name" shape :at (vec3 0 0 0) :rotate (vec3 0 0 45))
// (body "name" shape :at (vec3 0 0 0) :quat (list w x y z))
// -----------------------------------------------------------------------
func bodyBuiltin(s *scene.Scene) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("body requires a name and a shape")
		}

		bodyName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body %q: %w", bodyName, err)
		}

		at, _, err := pa.vecArg("at")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body %q: %w", bodyName, err)
		}
		rot, hasRot, err := pa.vecArg("rotate")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body %q: %w", bodyName, err)
		}

		t := hull.TransformFromEuler(at, rot)
		if v, ok := pa.kw["quat"]; ok {
			if hasRot {
				return zygo.SexpNull, fmt.Errorf("body %q: :rotate and :quat are mutually exclusive", bodyName)
			}
			q, err := toQuat(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("body %q: quat: %w", bodyName, err)
			}
			t = hull.TransformFromQuat(at, q)
		}

		err = s.AddBody(&scene.Body{
			Name:      bodyName,
			Shape:     sh.shape,
			Hull:      sh.hull,
			Transform: t,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body: %w", err)
		}
		return &sexpBodyRef{name: bodyName}, nil
	}
}
