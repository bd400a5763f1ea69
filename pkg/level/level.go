// Package level declares the parsed level structures the renderer consumes
// and a YAML snapshot format for loading them from disk.
//
// Parsing BSP and SPR files is not done here; a snapshot is the output of an
// external parser, already decoded to RGBA pixels and interleaved vertices.
package level

import (
	"errors"
	"fmt"
)

// FloatsPerVertex is the number of float32 components in one vertex:
// position (3), diffuse UV (2), lightmap UV (2).
const FloatsPerVertex = 7

// Errors reported by Validate.
var (
	ErrVertexStride = errors.New("face vertex data is not a multiple of the vertex stride")
	ErrTextureIndex = errors.New("face references a texture that does not exist")
	ErrPixelSize    = errors.New("pixel data does not match image dimensions")
	ErrEmptySprite  = errors.New("sprite has no frames")
)

// Level is one fully parsed map.
type Level struct {
	Name     string            `yaml:"name"`
	Models   []Model           `yaml:"models"`
	Textures []Texture         `yaml:"textures"`
	Sprites  map[string]Sprite `yaml:"sprites"`
	Lightmap Image             `yaml:"lightmap"`
	Entities []Entity          `yaml:"entities"`
}

// Model is a brush model. Index 0 is the world.
type Model struct {
	Origin [3]float32 `yaml:"origin"`
	Faces  []Face     `yaml:"faces"`
}

// Face is a triangle list drawn with a single texture.
type Face struct {
	TextureIndex int       `yaml:"texture"`
	Vertices     []float32 `yaml:"vertices"`
}

// VertexCount returns the number of vertices in the face.
func (f Face) VertexCount() int {
	return len(f.Vertices) / FloatsPerVertex
}

// Image is a tightly packed RGBA8 image.
type Image struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Pixels Pixels `yaml:"pixels"`
}

// Empty reports whether the image has no pixels at all.
func (img Image) Empty() bool {
	return img.Width == 0 || img.Height == 0
}

// Validate checks that the pixel buffer matches the dimensions.
func (img Image) Validate() error {
	if img.Width < 0 || img.Height < 0 || len(img.Pixels) != img.Width*img.Height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrPixelSize, img.Width, img.Height, len(img.Pixels))
	}
	return nil
}

// Texture is a named level texture (miptex).
type Texture struct {
	Name  string `yaml:"name"`
	Image `yaml:",inline"`
}

// Sprite is a sprite asset. Orientation uses the SPR header numbering
// (0 = parallel upright ... 4 = parallel oriented).
type Sprite struct {
	Orientation int     `yaml:"orientation"`
	Frames      []Image `yaml:"frames"`
}

// Entity is a raw entity record as produced by the entity lump parser or a
// replay frame. Zero values mean "absent".
type Entity struct {
	Classname  string     `yaml:"classname"`
	Model      string     `yaml:"model"`
	Origin     [3]float32 `yaml:"origin"`
	Angles     [3]float32 `yaml:"angles"` // pitch, yaw, roll in degrees
	RenderMode int        `yaml:"rendermode"`
	RenderAmt  float32    `yaml:"renderamt"`
	Scale      float32    `yaml:"scale"`
}

// Validate checks structural consistency of the level: vertex stride,
// texture references and image sizes.
func (l *Level) Validate() error {
	for i, m := range l.Models {
		for j, f := range m.Faces {
			if len(f.Vertices)%FloatsPerVertex != 0 {
				return fmt.Errorf("model %d face %d: %w (%d floats)", i, j, ErrVertexStride, len(f.Vertices))
			}
			if f.TextureIndex < 0 || f.TextureIndex >= len(l.Textures) {
				return fmt.Errorf("model %d face %d: %w (index %d of %d)", i, j, ErrTextureIndex, f.TextureIndex, len(l.Textures))
			}
		}
	}
	for i, t := range l.Textures {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("texture %d (%s): %w", i, t.Name, err)
		}
	}
	for name, s := range l.Sprites {
		if len(s.Frames) == 0 {
			return fmt.Errorf("sprite %s: %w", name, ErrEmptySprite)
		}
		if err := s.Frames[0].Validate(); err != nil {
			return fmt.Errorf("sprite %s: %w", name, err)
		}
	}
	if !l.Lightmap.Empty() {
		if err := l.Lightmap.Validate(); err != nil {
			return fmt.Errorf("lightmap: %w", err)
		}
	}
	return nil
}
