package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/engine/gpu/gputest"
	"github.com/Faultbox/hlviewer/pkg/level"
)

func solid(w, h int, c [4]byte) level.Image {
	px := make(level.Pixels, w*h*4)
	for i := 0; i < len(px); i += 4 {
		copy(px[i:], c[:])
	}
	return level.Image{Width: w, Height: h, Pixels: px}
}

func TestPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		is   bool
		next int
	}{
		{0, false, 1},
		{1, true, 1},
		{2, true, 2},
		{3, false, 4},
		{100, false, 128},
		{128, true, 128},
		{130, false, 256},
		{1024, true, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.is, IsPowerOfTwo(tt.n), "IsPowerOfTwo(%d)", tt.n)
		assert.Equal(t, tt.next, NextPowerOfTwo(tt.n), "NextPowerOfTwo(%d)", tt.n)
	}
}

func TestToPowerOfTwo(t *testing.T) {
	img := solid(130, 100, [4]byte{10, 20, 30, 255})

	for _, f := range []Filter{Bilinear, Nearest} {
		t.Run(string(f), func(t *testing.T) {
			out, err := ToPowerOfTwo(img, f)
			require.NoError(t, err)
			assert.Equal(t, 256, out.Width)
			assert.Equal(t, 128, out.Height)
			require.Len(t, out.Pixels, 256*128*4)
			// A uniform image stays uniform after resampling.
			assert.Equal(t, []byte{10, 20, 30, 255}, []byte(out.Pixels[:4]))
			assert.Equal(t, []byte{10, 20, 30, 255}, []byte(out.Pixels[len(out.Pixels)-4:]))
		})
	}
}

func TestToPowerOfTwoKeepsPOT(t *testing.T) {
	img := solid(64, 16, [4]byte{1, 2, 3, 4})
	out, err := ToPowerOfTwo(img, Bilinear)
	require.NoError(t, err)
	assert.Equal(t, img, out)
}

func TestToPowerOfTwoRejectsBadPixels(t *testing.T) {
	_, err := ToPowerOfTwo(level.Image{Width: 3, Height: 3, Pixels: make(level.Pixels, 8)}, Bilinear)
	assert.ErrorIs(t, err, level.ErrPixelSize)

	_, err = ToPowerOfTwo(level.Image{}, Bilinear)
	assert.Error(t, err)
}

func TestUploadLevelTexture(t *testing.T) {
	dev := gputest.New()
	bank := NewBank(dev, Config{})

	e, err := bank.UploadLevelTexture(level.Texture{Name: "wall", Image: solid(130, 100, [4]byte{255, 255, 255, 255})})
	require.NoError(t, err)

	assert.Equal(t, "wall", e.Name)
	assert.Equal(t, 256, e.Width)
	assert.Equal(t, 128, e.Height)

	up := dev.Textures[e.Handle]
	assert.Equal(t, 256, up.Width)
	assert.Equal(t, 128, up.Height)
	assert.Equal(t, gpu.TextureParams{
		MinFilter:  gpu.FilterLinearMipmapLinear,
		MagFilter:  gpu.FilterLinear,
		WrapS:      gpu.WrapRepeat,
		WrapT:      gpu.WrapRepeat,
		Mipmaps:    true,
		Anisotropy: 16,
	}, up.Params)

	got, ok := bank.Level(0)
	require.True(t, ok)
	assert.Equal(t, e, got)
	_, ok = bank.Level(1)
	assert.False(t, ok)
}

func TestAnisotropyCap(t *testing.T) {
	dev := gputest.New()
	bank := NewBank(dev, Config{MaxAnisotropy: 4})

	e, err := bank.UploadLevelTexture(level.Texture{Name: "a", Image: solid(4, 4, [4]byte{})})
	require.NoError(t, err)
	assert.Equal(t, float32(4), dev.Textures[e.Handle].Params.Anisotropy)

	dev.Anisotropy = 0
	e, err = bank.UploadLevelTexture(level.Texture{Name: "b", Image: solid(4, 4, [4]byte{})})
	require.NoError(t, err)
	assert.Zero(t, dev.Textures[e.Handle].Params.Anisotropy)
}

func TestUploadSpriteAndLightmap(t *testing.T) {
	dev := gputest.New()
	bank := NewBank(dev, Config{Filter: Nearest})

	s, err := bank.UploadSprite("sprites/glow.spr", solid(24, 24, [4]byte{255, 0, 0, 255}))
	require.NoError(t, err)
	assert.Equal(t, 32, s.Width)

	got, ok := bank.Sprite("sprites/glow.spr")
	require.True(t, ok)
	assert.Equal(t, s.Handle, got.Handle)

	_, ok = bank.Lightmap()
	assert.False(t, ok)

	lm, err := bank.UploadLightmap(solid(100, 30, [4]byte{128, 128, 128, 255}))
	require.NoError(t, err)
	assert.Equal(t, 100, lm.Width, "lightmap keeps its size")
	assert.Zero(t, dev.Textures[lm.Handle].Params.Anisotropy)

	_, ok = bank.Lightmap()
	assert.True(t, ok)
	assert.Equal(t, 2, bank.Len())
}

func TestUploadFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailTextureAt = 2
	bank := NewBank(dev, Config{})

	_, err := bank.UploadLevelTexture(level.Texture{Name: "ok", Image: solid(2, 2, [4]byte{})})
	require.NoError(t, err)

	_, err = bank.UploadLevelTexture(level.Texture{Name: "boom", Image: solid(2, 2, [4]byte{})})
	assert.ErrorIs(t, err, gpu.ErrTextureAlloc)
	_, ok := bank.Level(1)
	assert.False(t, ok)
}

func TestRelease(t *testing.T) {
	dev := gputest.New()
	bank := NewBank(dev, Config{})

	_, err := bank.UploadLevelTexture(level.Texture{Name: "a", Image: solid(2, 2, [4]byte{})})
	require.NoError(t, err)
	_, err = bank.UploadSprite("s.spr", solid(2, 2, [4]byte{}))
	require.NoError(t, err)
	_, err = bank.UploadLightmap(solid(2, 2, [4]byte{}))
	require.NoError(t, err)
	require.Len(t, dev.Textures, 3)

	bank.Release()

	assert.Empty(t, dev.Textures)
	assert.Len(t, dev.Filter(gputest.OpDeleteTexture), 3)
	assert.Zero(t, bank.Len())
	_, ok := bank.Sprite("s.spr")
	assert.False(t, ok)
}
