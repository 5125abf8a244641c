package engine

import (
	"fmt"

	"github.com/chazu/hullsat/pkg/hull"
	"github.com/chazu/hullsat/pkg/kernel"
	"github.com/chazu/hullsat/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// registerShapeBuiltins installs the hull generators. Every shape accepts
// :offset and :rotate to bake a local placement into the hull itself.
func registerShapeBuiltins(env *zygo.Zlisp, s *scene.Scene, k kernel.Kernel) {

	// -----------------------------------------------------------------------
	// (box :size (vec3 2 2 2))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, ok, err := pa.vecArg("size")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("box requires :size")
		}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return zygo.SexpNull, fmt.Errorf("box: size must be positive, got (%g, %g, %g)", size.X, size.Y, size.Z)
		}
		shape := scene.Shape{Kind: scene.ShapeBox, Size: size}
		return buildShape(s, k, pa, shape, k.Box(size.X, size.Y, size.Z))
	})

	// -----------------------------------------------------------------------
	// (cylinder :radius 1 :height 2 :segments 16)
	// (cone :radius 1 :height 2 :segments 16)
	// -----------------------------------------------------------------------
	round := func(kind scene.ShapeKind, solid func(height, radius float64, segments int) kernel.Solid) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			shape, err := roundShape(pa, kind, true)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			return buildShape(s, k, pa, shape, solid(shape.Height, shape.Radius, shape.Segments))
		}
	}
	env.AddFunction("cylinder", round(scene.ShapeCylinder, k.Cylinder))
	env.AddFunction("cone", round(scene.ShapeCone, k.Cone))

	// -----------------------------------------------------------------------
	// (disk :radius 1 :segments 16)
	// -----------------------------------------------------------------------
	env.AddFunction("disk", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		shape, err := roundShape(pa, scene.ShapeDisk, false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("disk: %w", err)
		}
		return buildShape(s, k, pa, shape, k.Disk(shape.Radius, shape.Segments))
	})

	// -----------------------------------------------------------------------
	// (polyhedron :vertices (list (vec3 ...) ...) :faces (list (list 0 1 2) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		def, err := toDef(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: %w", err)
		}
		h, err := hull.BuildFromDef(def)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: %w", err)
		}
		return placeShape(pa, scene.Shape{Kind: scene.ShapePolyhedron}, h)
	})
}

// roundShape reads :radius, :segments and, when withHeight is set, :height.
func roundShape(pa kwArgs, kind scene.ShapeKind, withHeight bool) (scene.Shape, error) {
	shape := scene.Shape{Kind: kind}
	var err error
	if shape.Radius, err = pa.floatArg("radius", 0); err != nil {
		return shape, err
	}
	if shape.Radius <= 0 {
		return shape, fmt.Errorf("radius must be positive")
	}
	if withHeight {
		if shape.Height, err = pa.floatArg("height", 0); err != nil {
			return shape, err
		}
		if shape.Height <= 0 {
			return shape, fmt.Errorf("height must be positive")
		}
	}
	if shape.Segments, err = pa.intArg("segments", DefaultSegments); err != nil {
		return shape, err
	}
	if shape.Segments < 3 {
		return shape, fmt.Errorf("segments must be at least 3, got %d", shape.Segments)
	}
	return shape, nil
}

// buildShape tessellates the solid in its own frame, builds its hull with
// the scene's build settings and then bakes in the local placement.
func buildShape(s *scene.Scene, k kernel.Kernel, pa kwArgs, shape scene.Shape, solid kernel.Solid) (zygo.Sexp, error) {
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
	}
	tris, err := mesh.Triangles()
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
	}
	h, err := hull.BuildWithConfig(tris, s.Defaults.Build)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
	}
	return placeShape(pa, shape, h)
}

// placeShape applies the optional :rotate (Euler degrees) and then :offset
// to a built hull. Welding happens before placement, so faces stay planar
// at any angle.
func placeShape(pa kwArgs, shape scene.Shape, h *hull.Hull) (zygo.Sexp, error) {
	rot, hasRot, err := pa.vecArg("rotate")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
	}
	off, hasOff, err := pa.vecArg("offset")
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
	}
	if hasRot || hasOff {
		shape.Offset, shape.Rotate = off, rot
		if h, err = h.Transformed(hull.TransformFromEuler(off, rot)); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", shape.Kind, err)
		}
	}
	return &sexpShape{shape: shape, hull: h}, nil
}

// toDef reads :vertices and :faces into a hull definition.
func toDef(pa kwArgs) (hull.Def, error) {
	var def hull.Def
	vs, ok := pa.kw["vertices"]
	if !ok {
		return def, fmt.Errorf("requires :vertices")
	}
	fs, ok := pa.kw["faces"]
	if !ok {
		return def, fmt.Errorf("requires :faces")
	}

	items, err := sexpListToSlice(vs)
	if err != nil {
		return def, fmt.Errorf("vertices: %w", err)
	}
	for i, item := range items {
		v, err := toVec3(item)
		if err != nil {
			return def, fmt.Errorf("vertex %d: %w", i, err)
		}
		def.Vertices = append(def.Vertices, v)
	}

	faces, err := sexpListToSlice(fs)
	if err != nil {
		return def, fmt.Errorf("faces: %w", err)
	}
	for f, face := range faces {
		idx, err := sexpListToSlice(face)
		if err != nil {
			return def, fmt.Errorf("face %d: %w", f, err)
		}
		loop := make([]int, len(idx))
		for j, x := range idx {
			if loop[j], err = toInt(x); err != nil {
				return def, fmt.Errorf("face %d: %w", f, err)
			}
		}
		def.Faces = append(def.Faces, loop)
	}
	return def, nil
}

// vec3Sexp wraps a vector for return to scripts.
func vec3Sexp(v v3.Vec) zygo.Sexp {
	return &sexpVec3{vec: v}
}
