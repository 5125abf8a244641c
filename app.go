package main

import (
	"context"
	"log"

	"github.com/chazu/hullsat/pkg/engine"
	"github.com/chazu/hullsat/pkg/kernel"
	"github.com/chazu/hullsat/pkg/narrowphase"
	"github.com/chazu/hullsat/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// colorPalette is a default palette used to assign distinct colors to bodies.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the full pipeline: script evaluation, scene validation and the
// narrowphase over every body pair.
type App struct {
	engine *engine.Engine
	opts   narrowphase.Options
}

// BodyData summarizes one placed body.
type BodyData struct {
	Name     string      `json:"name"`
	Shape    scene.Shape `json:"shape"`
	Position v3.Vec      `json:"position"`
	Bounds   sdf.Box3    `json:"bounds"`
	Faces    int         `json:"faces"`
	Vertices int         `json:"vertices"`
}

// MeshData is the JSON-serializable world-space mesh of one body hull.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Body     string    `json:"body"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Body    string `json:"body,omitempty"`
	Message string `json:"message"`
}

// Report is the full result of one evaluation.
type Report struct {
	Bodies   []BodyData           `json:"bodies"`
	Meshes   []MeshData           `json:"meshes"`
	Pairs    []narrowphase.Result `json:"pairs"`
	Probes   []scene.Probe        `json:"probes"`
	Errors   []EvalErrorData      `json:"errors"`
	Warnings []EvalErrorData      `json:"warnings"`
}

// NewApp creates a new App with the sdfx-backed engine and default
// narrowphase options.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		opts:   narrowphase.DefaultOptions(),
	}
}

// Evaluate runs source through the pipeline with a background context.
func (a *App) Evaluate(source string) Report {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext takes Lisp source and returns bodies, pair results and
// errors. Cancelling ctx abandons the script or aborts the narrowphase.
func (a *App) EvaluateContext(ctx context.Context, source string) Report {
	result := Report{
		Bodies:   []BodyData{},
		Meshes:   []MeshData{},
		Pairs:    []narrowphase.Result{},
		Probes:   []scene.Probe{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Probes = append(result.Probes, s.Probes...)

	// Step 2: Validate. Errors block the narrowphase, warnings do not.
	findings := scene.Validate(s)
	for _, f := range findings {
		d := EvalErrorData{Body: f.Body, Message: f.Message}
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	if scene.HasErrors(findings) {
		return result
	}

	// Step 3: Summarize and mesh every body.
	for i, b := range s.List() {
		result.Bodies = append(result.Bodies, BodyData{
			Name:     b.Name,
			Shape:    b.Shape,
			Position: b.Position(),
			Bounds:   b.WorldBounds(),
			Faces:    b.Hull.FaceCount(),
			Vertices: b.Hull.VertexCount(),
		})
		m := bodyMesh(b)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Body:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	// Step 4: Query every pair.
	opts := a.opts
	opts.Manifolds = true
	pairs, err := narrowphase.Collide(ctx, s, opts)
	if err != nil {
		log.Printf("Narrowphase error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "narrowphase failed: " + err.Error()})
		return result
	}
	result.Pairs = append(result.Pairs, pairs...)
	return result
}

// bodyMesh fans every hull face into world-space triangles.
func bodyMesh(b *scene.Body) *kernel.Mesh {
	h := b.Hull
	var tris []sdf.Triangle3
	for f := 0; f < h.FaceCount(); f++ {
		loop := h.FaceVertices(f)
		p0 := b.Transform.Point(h.Vertex(loop[0]))
		for i := 1; i+1 < len(loop); i++ {
			tris = append(tris, sdf.Triangle3{
				p0,
				b.Transform.Point(h.Vertex(loop[i])),
				b.Transform.Point(h.Vertex(loop[i+1])),
			})
		}
	}
	return kernel.MeshFromTriangles(b.Name, tris)
}
