// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// EXT_texture_filter_anisotropic, core since 4.6.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
}

// Renderer is the OpenGL implementation of gpu.Device.
type Renderer struct {
	config Config
	log    *zap.Logger

	vao           uint32
	maxAnisotropy float32
}

var _ gpu.Device = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Core profile refuses attribute pointers without a bound VAO.
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	if isExtensionSupported("GL_EXT_texture_filter_anisotropic") || isExtensionSupported("GL_ARB_texture_filter_anisotropic") {
		gl.GetFloatv(maxTextureMaxAnisotropy, &r.maxAnisotropy)
	}
	r.log.Debug("device limits", zap.Float32("max_anisotropy", r.maxAnisotropy))

	return r, nil
}

func isExtensionSupported(name string) bool {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))) == name {
			return true
		}
	}
	return false
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Buffers

func (r *Renderer) CreateBuffer() (gpu.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, gpu.ErrBufferAlloc
	}
	return gpu.Buffer(id), nil
}

func (r *Renderer) UploadStaticBuffer(b gpu.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
}

func (r *Renderer) BindBuffer(b gpu.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

func (r *Renderer) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// Textures

func (r *Renderer) CreateTexture() (gpu.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, gpu.ErrTextureAlloc
	}
	return gpu.Texture(id), nil
}

func (r *Renderer) UploadTexture(t gpu.Texture, width, height int, rgba []byte, params gpu.TextureParams) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	var pixels unsafe.Pointer
	if len(rgba) > 0 {
		pixels = gl.Ptr(rgba)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, pixels)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(params.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(params.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(params.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(params.WrapT))

	if params.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	if params.Anisotropy > 1 && r.maxAnisotropy > 0 {
		gl.TexParameterf(gl.TEXTURE_2D, textureMaxAnisotropy, params.Anisotropy)
	}
}

func (r *Renderer) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (r *Renderer) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (r *Renderer) MaxAnisotropy() float32 {
	return r.maxAnisotropy
}

// Programs

func (r *Renderer) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex shader: %v", gpu.ErrProgram, err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%w: fragment shader: %v", gpu.ErrProgram, err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: link failed: %s", gpu.ErrProgram, log)
	}

	r.log.Debug("shader program created", zap.Uint32("program", program))
	return gpu.Program(program), nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}

func (r *Renderer) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (r *Renderer) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (r *Renderer) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (r *Renderer) SetUniformMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

func (r *Renderer) SetUniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (r *Renderer) SetUniformFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

// State

func (r *Renderer) SetVertexLayout(stride int, attribs []gpu.VertexAttrib) {
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false,
			int32(stride*4), uintptr(a.Offset*4))
	}
}

func (r *Renderer) SetBlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(glBlend(src), glBlend(dst))
}

func (r *Renderer) SetDepthMask(write bool) {
	gl.DepthMask(write)
}

func (r *Renderer) DrawTriangles(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func glFilter(f gpu.Filter) int32 {
	switch f {
	case gpu.FilterNearest:
		return gl.NEAREST
	case gpu.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func glWrap(w gpu.Wrap) int32 {
	if w == gpu.WrapClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func glBlend(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gpu.BlendDstAlpha:
		return gl.DST_ALPHA
	case gpu.BlendOne:
		return gl.ONE
	default:
		return gl.SRC_ALPHA
	}
}
