// Package gpu declares the graphics device the scene renders through.
//
// The OpenGL implementation lives in package renderer; tests use the
// recording device in gpu/gputest.
package gpu

import (
	"errors"

	"github.com/Faultbox/hlviewer/pkg/math"
)

// Errors returned when the device cannot allocate an object.
var (
	ErrBufferAlloc  = errors.New("gpu: cannot allocate buffer")
	ErrTextureAlloc = errors.New("gpu: cannot allocate texture")
	ErrProgram      = errors.New("gpu: cannot build shader program")
)

// Handles. Zero is never a valid object.
type (
	Buffer  uint32
	Texture uint32
	Program uint32
)

// Filter is a texture sampling filter.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterLinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap uint8

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// TextureParams describes how a texture is sampled.
type TextureParams struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap
	Mipmaps   bool
	// Anisotropy is the max anisotropy level. Values <= 1 leave it off.
	Anisotropy float32
}

// BlendFactor is a blend equation factor.
type BlendFactor uint8

const (
	BlendSrcAlpha BlendFactor = iota
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOne
)

// VertexAttrib describes one float attribute in an interleaved buffer.
// Size and Offset are counted in floats.
type VertexAttrib struct {
	Location uint32
	Size     int32
	Offset   int
}

// Device is the subset of a graphics API the scene needs.
// All methods must be called from the thread owning the context.
type Device interface {
	CreateBuffer() (Buffer, error)
	// UploadStaticBuffer replaces the contents of b with data.
	UploadStaticBuffer(b Buffer, data []float32)
	BindBuffer(b Buffer)
	DeleteBuffer(b Buffer)

	CreateTexture() (Texture, error)
	// UploadTexture stores tightly packed RGBA8 pixels into t.
	UploadTexture(t Texture, width, height int, rgba []byte, params TextureParams)
	BindTexture(unit int, t Texture)
	DeleteTexture(t Texture)
	// MaxAnisotropy returns the largest supported anisotropy, or 0 when
	// anisotropic filtering is unavailable.
	MaxAnisotropy() float32

	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	UseProgram(p Program)
	DeleteProgram(p Program)
	UniformLocation(p Program, name string) int32
	SetUniformMat4(loc int32, m math.Mat4)
	SetUniformInt(loc int32, v int32)
	SetUniformFloat(loc int32, v float32)

	// SetVertexLayout points the given attributes at the bound buffer.
	// stride is counted in floats.
	SetVertexLayout(stride int, attribs []VertexAttrib)

	SetBlendFunc(src, dst BlendFactor)
	SetDepthMask(write bool)
	// DrawTriangles draws count vertices starting at vertex first.
	DrawTriangles(first, count int)

	// ReadPixels returns the back buffer as RGBA8, bottom row first.
	ReadPixels(width, height int) []byte
}
