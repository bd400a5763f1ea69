// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// Op names recorded in Call.Op.
const (
	OpBindBuffer    = "BindBuffer"
	OpUpload        = "UploadStaticBuffer"
	OpBindTexture   = "BindTexture"
	OpUploadTexture = "UploadTexture"
	OpUseProgram    = "UseProgram"
	OpUniformMat4   = "UniformMat4"
	OpUniformInt    = "UniformInt"
	OpUniformFloat  = "UniformFloat"
	OpVertexLayout  = "VertexLayout"
	OpBlendFunc     = "BlendFunc"
	OpDepthMask     = "DepthMask"
	OpDraw          = "Draw"
	OpDeleteBuffer  = "DeleteBuffer"
	OpDeleteTexture = "DeleteTexture"
	OpDeleteProgram = "DeleteProgram"
)

// Call is one recorded device call. Only the fields relevant to Op are set.
type Call struct {
	Op      string
	Buffer  gpu.Buffer
	Texture gpu.Texture
	Unit    int
	Uniform string
	Mat     math.Mat4
	Int     int32
	Float   float32
	Src     gpu.BlendFactor
	Dst     gpu.BlendFactor
	Write   bool
	First   int
	Count   int
}

// TextureUpload is the last image stored into a texture.
type TextureUpload struct {
	Width, Height int
	Pixels        []byte
	Params        gpu.TextureParams
}

// Device records calls made to it. The zero value is not usable; use New.
type Device struct {
	Calls []Call

	Buffers  map[gpu.Buffer][]float32
	Textures map[gpu.Texture]TextureUpload
	Programs map[gpu.Program]bool

	// Failure injection.
	FailBuffer bool
	// FailTextureAt makes the n-th CreateTexture call (1-based) fail. 0 disables.
	FailTextureAt int
	FailProgram   bool

	Anisotropy float32

	next         uint32
	textureCalls int
	uniforms     []string
	Pixels       []byte
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device with 16x anisotropy.
func New() *Device {
	return &Device{
		Buffers:    make(map[gpu.Buffer][]float32),
		Textures:   make(map[gpu.Texture]TextureUpload),
		Programs:   make(map[gpu.Program]bool),
		Anisotropy: 16,
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(c Call) {
	d.Calls = append(d.Calls, c)
}

// Reset forgets recorded calls but keeps live objects.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

func (d *Device) CreateBuffer() (gpu.Buffer, error) {
	if d.FailBuffer {
		return 0, gpu.ErrBufferAlloc
	}
	b := gpu.Buffer(d.handle())
	d.Buffers[b] = nil
	return b, nil
}

func (d *Device) UploadStaticBuffer(b gpu.Buffer, data []float32) {
	d.Buffers[b] = append([]float32(nil), data...)
	d.record(Call{Op: OpUpload, Buffer: b, Count: len(data)})
}

func (d *Device) BindBuffer(b gpu.Buffer) {
	d.record(Call{Op: OpBindBuffer, Buffer: b})
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	delete(d.Buffers, b)
	d.record(Call{Op: OpDeleteBuffer, Buffer: b})
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	d.textureCalls++
	if d.FailTextureAt > 0 && d.textureCalls == d.FailTextureAt {
		return 0, gpu.ErrTextureAlloc
	}
	t := gpu.Texture(d.handle())
	d.Textures[t] = TextureUpload{}
	return t, nil
}

func (d *Device) UploadTexture(t gpu.Texture, width, height int, rgba []byte, params gpu.TextureParams) {
	d.Textures[t] = TextureUpload{
		Width:  width,
		Height: height,
		Pixels: append([]byte(nil), rgba...),
		Params: params,
	}
	d.record(Call{Op: OpUploadTexture, Texture: t, First: width, Count: height})
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.record(Call{Op: OpBindTexture, Unit: unit, Texture: t})
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	delete(d.Textures, t)
	d.record(Call{Op: OpDeleteTexture, Texture: t})
}

func (d *Device) MaxAnisotropy() float32 {
	return d.Anisotropy
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	if d.FailProgram {
		return 0, fmt.Errorf("%w: link failed", gpu.ErrProgram)
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, fmt.Errorf("%w: empty source", gpu.ErrProgram)
	}
	p := gpu.Program(d.handle())
	d.Programs[p] = true
	return p, nil
}

func (d *Device) UseProgram(p gpu.Program) {
	d.record(Call{Op: OpUseProgram, Int: int32(p)})
}

func (d *Device) DeleteProgram(p gpu.Program) {
	delete(d.Programs, p)
	d.record(Call{Op: OpDeleteProgram, Int: int32(p)})
}

// UniformLocation hands out a stable location per uniform name.
func (d *Device) UniformLocation(_ gpu.Program, name string) int32 {
	for i, n := range d.uniforms {
		if n == name {
			return int32(i)
		}
	}
	d.uniforms = append(d.uniforms, name)
	return int32(len(d.uniforms) - 1)
}

func (d *Device) uniformName(loc int32) string {
	if loc < 0 || int(loc) >= len(d.uniforms) {
		return ""
	}
	return d.uniforms[loc]
}

func (d *Device) SetUniformMat4(loc int32, m math.Mat4) {
	d.record(Call{Op: OpUniformMat4, Uniform: d.uniformName(loc), Mat: m})
}

func (d *Device) SetUniformInt(loc int32, v int32) {
	d.record(Call{Op: OpUniformInt, Uniform: d.uniformName(loc), Int: v})
}

func (d *Device) SetUniformFloat(loc int32, v float32) {
	d.record(Call{Op: OpUniformFloat, Uniform: d.uniformName(loc), Float: v})
}

func (d *Device) SetVertexLayout(stride int, attribs []gpu.VertexAttrib) {
	d.record(Call{Op: OpVertexLayout, Count: stride, First: len(attribs)})
}

func (d *Device) SetBlendFunc(src, dst gpu.BlendFactor) {
	d.record(Call{Op: OpBlendFunc, Src: src, Dst: dst})
}

func (d *Device) SetDepthMask(write bool) {
	d.record(Call{Op: OpDepthMask, Write: write})
}

func (d *Device) DrawTriangles(first, count int) {
	d.record(Call{Op: OpDraw, First: first, Count: count})
}

// ReadPixels returns d.Pixels when set, otherwise an opaque black frame.
func (d *Device) ReadPixels(width, height int) []byte {
	if d.Pixels != nil {
		return d.Pixels
	}
	px := make([]byte, width*height*4)
	for i := 3; i < len(px); i += 4 {
		px[i] = 255
	}
	return px
}

// Filter returns the recorded calls with the given op.
func (d *Device) Filter(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns every recorded draw call.
func (d *Device) Draws() []Call {
	return d.Filter(OpDraw)
}

// Ops returns the sequence of recorded op names, for order assertions.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Uniforms returns the recorded uniform calls for name.
func (d *Device) Uniforms(name string) []Call {
	var out []Call
	for _, c := range d.Calls {
		switch c.Op {
		case OpUniformMat4, OpUniformInt, OpUniformFloat:
			if c.Uniform == name {
				out = append(out, c)
			}
		}
	}
	return out
}

// String renders the call log, one call per line. Handy in failure output.
func (d *Device) String() string {
	var sb strings.Builder
	for _, c := range d.Calls {
		fmt.Fprintf(&sb, "%+v\n", c)
	}
	return sb.String()
}
