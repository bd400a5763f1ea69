// Package shader holds the world shader and its uniform bindings.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/pkg/math"
)

//go:embed world.vert
var worldVertexSource string

//go:embed world.frag
var worldFragmentSource string

// Attribute locations in the world vertex layout.
const (
	AttribPosition   = 0
	AttribTexCoord   = 1
	AttribLightmapUV = 2
)

// Texture units the samplers read from.
const (
	DiffuseUnit  = 0
	LightmapUnit = 1
)

// World is the compiled world program with cached uniform locations.
type World struct {
	dev     gpu.Device
	program gpu.Program

	locModel      int32
	locView       int32
	locProjection int32
	locDiffuse    int32
	locLightmap   int32
	locOpacity    int32
}

// NewWorld compiles the world program.
func NewWorld(dev gpu.Device) (*World, error) {
	program, err := dev.CompileProgram(worldVertexSource, worldFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("world shader: %w", err)
	}

	return &World{
		dev:           dev,
		program:       program,
		locModel:      dev.UniformLocation(program, "uModel"),
		locView:       dev.UniformLocation(program, "uView"),
		locProjection: dev.UniformLocation(program, "uProjection"),
		locDiffuse:    dev.UniformLocation(program, "uDiffuse"),
		locLightmap:   dev.UniformLocation(program, "uLightmap"),
		locOpacity:    dev.UniformLocation(program, "uOpacity"),
	}, nil
}

// Layout is the interleaved vertex layout: position, UV, lightmap UV.
func Layout() (stride int, attribs []gpu.VertexAttrib) {
	return 7, []gpu.VertexAttrib{
		{Location: AttribPosition, Size: 3, Offset: 0},
		{Location: AttribTexCoord, Size: 2, Offset: 3},
		{Location: AttribLightmapUV, Size: 2, Offset: 5},
	}
}

// Use binds the program and points the samplers at their units.
func (w *World) Use() {
	w.dev.UseProgram(w.program)
	w.dev.SetUniformInt(w.locDiffuse, DiffuseUnit)
	w.dev.SetUniformInt(w.locLightmap, LightmapUnit)
}

// SetCamera uploads the view and projection matrices.
func (w *World) SetCamera(view, projection math.Mat4) {
	w.dev.SetUniformMat4(w.locView, view)
	w.dev.SetUniformMat4(w.locProjection, projection)
}

func (w *World) SetModel(m math.Mat4) {
	w.dev.SetUniformMat4(w.locModel, m)
}

func (w *World) SetOpacity(v float32) {
	w.dev.SetUniformFloat(w.locOpacity, v)
}

// Destroy deletes the program.
func (w *World) Destroy() {
	if w.program != 0 {
		w.dev.DeleteProgram(w.program)
		w.program = 0
	}
}
