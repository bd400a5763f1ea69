// Package scene compiles a level into GPU buffers and draws it each frame:
// the world first, then opaque entities, then transparent entities sorted
// back to front.
//
// A Scene is not safe for concurrent use. ChangeMap and Draw must run on
// the thread owning the graphics context and never overlap.
package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/engine/shader"
	"github.com/Faultbox/hlviewer/internal/engine/sprite"
	"github.com/Faultbox/hlviewer/internal/engine/texture"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/pkg/level"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// ErrNilLevel is returned by ChangeMap when given no level.
var ErrNilLevel = errors.New("scene: nil level")

// Camera supplies the view for a frame. Update* are called once per frame
// before the matrices are read.
type Camera interface {
	UpdateViewMatrix()
	UpdateProjectionMatrix()
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
	Position() math.Vec3
	// Rotation is pitch, yaw, roll in radians.
	Rotation() math.Vec3
}

// Config contains scene configuration options.
type Config struct {
	Filter        texture.Filter
	MaxAnisotropy float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Filter: texture.Bilinear,
	}
}

// FrameStats counts the work done by one Draw call.
type FrameStats struct {
	DrawCalls    int
	TextureBinds int
	Opaque       int
	Transparent  int
	Skipped      int
}

// Scene owns the GPU state of the loaded level.
type Scene struct {
	config Config
	dev    gpu.Device
	shader *shader.World
	log    *zap.Logger

	// Level state, replaced by ChangeMap.
	name     string
	loaded   bool
	buffer   gpu.Buffer
	compiled *SceneBuffer
	textures *texture.Bank
	sprites  map[string]sprite.Orientation
}

// New compiles the world shader. Failure leaves nothing allocated.
func New(dev gpu.Device, cfg Config) (*Scene, error) {
	world, err := shader.NewWorld(dev)
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	return &Scene{
		config: cfg,
		dev:    dev,
		shader: world,
		log:    logger.Named("scene"),
		textures: texture.NewBank(dev, texture.Config{
			Filter:        cfg.Filter,
			MaxAnisotropy: cfg.MaxAnisotropy,
		}),
	}, nil
}

// ChangeMap releases the current level and loads lvl. On error the scene is
// left with no level loaded and Draw does nothing until the next
// successful ChangeMap.
func (s *Scene) ChangeMap(lvl *level.Level) error {
	s.unload()
	if lvl == nil {
		return ErrNilLevel
	}

	if err := s.load(lvl); err != nil {
		s.unload()
		return fmt.Errorf("loading level %q: %w", lvl.Name, err)
	}
	return nil
}

func (s *Scene) load(lvl *level.Level) error {
	sprites := make(map[string]sprite.Orientation, len(lvl.Sprites))
	for name, sp := range lvl.Sprites {
		o := sprite.Orientation(sp.Orientation)
		if !o.Valid() {
			return fmt.Errorf("sprite %s: %w: %d", name, sprite.ErrUnsupportedOrientation, sp.Orientation)
		}
		if len(sp.Frames) == 0 {
			return fmt.Errorf("sprite %s: %w", name, level.ErrEmptySprite)
		}
		sprites[name] = o
	}

	compiled, err := Compile(lvl.Models, lvl.Textures)
	if err != nil {
		return fmt.Errorf("compiling geometry: %w", err)
	}

	buf, err := s.dev.CreateBuffer()
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}
	s.buffer = buf
	s.dev.BindBuffer(buf)
	s.dev.UploadStaticBuffer(buf, compiled.Data)

	for _, t := range lvl.Textures {
		if _, err := s.textures.UploadLevelTexture(t); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(lvl.Sprites)) {
		if _, err := s.textures.UploadSprite(name, lvl.Sprites[name].Frames[0]); err != nil {
			return err
		}
	}
	if !lvl.Lightmap.Empty() {
		if _, err := s.textures.UploadLightmap(lvl.Lightmap); err != nil {
			return err
		}
	} else {
		s.log.Warn("level has no lightmap, nothing will be drawn", zap.String("level", lvl.Name))
	}

	s.name = lvl.Name
	s.compiled = compiled
	s.sprites = sprites
	s.loaded = true

	visible := 0
	for _, m := range lvl.Models {
		for _, f := range m.Faces {
			if !IsInvisible(lvl.Textures[f.TextureIndex].Name) {
				visible++
			}
		}
	}
	s.log.Info("level loaded",
		zap.String("level", lvl.Name),
		zap.Int("models", len(lvl.Models)),
		zap.Int("vertices", compiled.VertexCount()),
		zap.Int("faces", visible),
		zap.Int("draw_batches", compiled.FaceCount()),
		zap.Int("textures", len(lvl.Textures)),
		zap.Int("sprites", len(sprites)),
	)
	return nil
}

// unload releases the level's GPU objects.
func (s *Scene) unload() {
	if s.buffer != 0 {
		s.dev.DeleteBuffer(s.buffer)
		s.buffer = 0
	}
	s.textures.Release()
	s.name = ""
	s.loaded = false
	s.compiled = nil
	s.sprites = nil
}

// Loaded reports whether a level is ready to draw.
func (s *Scene) Loaded() bool {
	return s.loaded
}

// Buffer returns the compiled geometry of the loaded level, or nil.
func (s *Scene) Buffer() *SceneBuffer {
	return s.compiled
}

// Destroy releases all GPU resources. The scene must not be used afterwards.
func (s *Scene) Destroy() {
	s.unload()
	if s.shader != nil {
		s.shader.Destroy()
		s.shader = nil
	}
}
