package texture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/pkg/level"
)

// Entry is an uploaded texture. Width and Height are the uploaded
// (power-of-two) dimensions.
type Entry struct {
	Name   string
	Width  int
	Height int
	Handle gpu.Texture
}

// Config controls texture uploads.
type Config struct {
	Filter Filter
	// MaxAnisotropy caps anisotropic filtering. 0 uses the device maximum.
	MaxAnisotropy float32
}

// Bank owns every texture of the loaded level.
type Bank struct {
	dev    gpu.Device
	config Config

	level    []Entry
	sprites  map[string]Entry
	lightmap Entry
}

// NewBank creates an empty bank uploading through dev.
func NewBank(dev gpu.Device, cfg Config) *Bank {
	if cfg.Filter == "" {
		cfg.Filter = Bilinear
	}
	return &Bank{
		dev:     dev,
		config:  cfg,
		sprites: make(map[string]Entry),
	}
}

// params returns the sampling state for diffuse textures: linear
// magnification, trilinear minification, repeat wrap, mipmaps and
// anisotropy when the device has it.
func (b *Bank) params() gpu.TextureParams {
	aniso := b.dev.MaxAnisotropy()
	if b.config.MaxAnisotropy > 0 && b.config.MaxAnisotropy < aniso {
		aniso = b.config.MaxAnisotropy
	}
	return gpu.TextureParams{
		MinFilter:  gpu.FilterLinearMipmapLinear,
		MagFilter:  gpu.FilterLinear,
		WrapS:      gpu.WrapRepeat,
		WrapT:      gpu.WrapRepeat,
		Mipmaps:    true,
		Anisotropy: aniso,
	}
}

func (b *Bank) upload(name string, img level.Image, params gpu.TextureParams, resize bool) (Entry, error) {
	if resize {
		var err error
		orig := img
		img, err = ToPowerOfTwo(img, b.config.Filter)
		if err != nil {
			return Entry{}, fmt.Errorf("texture %s: %w", name, err)
		}
		if img.Width != orig.Width || img.Height != orig.Height {
			logger.Debug("resized texture",
				zap.String("name", name),
				zap.String("from", fmt.Sprintf("%dx%d", orig.Width, orig.Height)),
				zap.String("to", fmt.Sprintf("%dx%d", img.Width, img.Height)),
			)
		}
	} else if err := img.Validate(); err != nil {
		return Entry{}, fmt.Errorf("texture %s: %w", name, err)
	}

	handle, err := b.dev.CreateTexture()
	if err != nil {
		return Entry{}, fmt.Errorf("texture %s: %w", name, err)
	}
	b.dev.UploadTexture(handle, img.Width, img.Height, img.Pixels, params)

	return Entry{Name: name, Width: img.Width, Height: img.Height, Handle: handle}, nil
}

// UploadLevelTexture uploads the next level texture. Level textures are
// indexed in upload order, matching face texture indices.
func (b *Bank) UploadLevelTexture(t level.Texture) (Entry, error) {
	e, err := b.upload(t.Name, t.Image, b.params(), true)
	if err != nil {
		return Entry{}, err
	}
	b.level = append(b.level, e)
	return e, nil
}

// UploadSprite uploads the first frame of a sprite under its asset name.
func (b *Bank) UploadSprite(name string, frame level.Image) (Entry, error) {
	e, err := b.upload(name, frame, b.params(), true)
	if err != nil {
		return Entry{}, err
	}
	if old, ok := b.sprites[name]; ok {
		b.dev.DeleteTexture(old.Handle)
	}
	b.sprites[name] = e
	return e, nil
}

// UploadLightmap uploads the level lightmap atlas. It is sampled with
// trilinear filtering and is not resized.
func (b *Bank) UploadLightmap(img level.Image) (Entry, error) {
	params := gpu.TextureParams{
		MinFilter: gpu.FilterLinearMipmapLinear,
		MagFilter: gpu.FilterLinear,
		WrapS:     gpu.WrapRepeat,
		WrapT:     gpu.WrapRepeat,
		Mipmaps:   true,
	}
	e, err := b.upload("lightmap", img, params, false)
	if err != nil {
		return Entry{}, err
	}
	if b.lightmap.Handle != 0 {
		b.dev.DeleteTexture(b.lightmap.Handle)
	}
	b.lightmap = e
	return e, nil
}

// Level returns the level texture at index i.
func (b *Bank) Level(i int) (Entry, bool) {
	if i < 0 || i >= len(b.level) {
		return Entry{}, false
	}
	return b.level[i], true
}

// Sprite returns the texture of the named sprite.
func (b *Bank) Sprite(name string) (Entry, bool) {
	e, ok := b.sprites[name]
	return e, ok
}

// Lightmap returns the lightmap texture if one was uploaded.
func (b *Bank) Lightmap() (Entry, bool) {
	return b.lightmap, b.lightmap.Handle != 0
}

// Len returns the number of textures held.
func (b *Bank) Len() int {
	n := len(b.level) + len(b.sprites)
	if b.lightmap.Handle != 0 {
		n++
	}
	return n
}

// Release deletes every texture and empties the bank.
func (b *Bank) Release() {
	for _, e := range b.level {
		b.dev.DeleteTexture(e.Handle)
	}
	for _, e := range b.sprites {
		b.dev.DeleteTexture(e.Handle)
	}
	if b.lightmap.Handle != 0 {
		b.dev.DeleteTexture(b.lightmap.Handle)
	}
	b.level = nil
	b.sprites = make(map[string]Entry)
	b.lightmap = Entry{}
}
