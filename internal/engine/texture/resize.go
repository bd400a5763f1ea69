// Package texture uploads level, sprite and lightmap images to the GPU.
package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/Faultbox/hlviewer/pkg/level"
)

// Filter selects the resampler used to grow images to power-of-two sizes.
type Filter string

const (
	Bilinear Filter = "bilinear"
	Nearest  Filter = "nearest"
)

func (f Filter) interpolator() draw.Interpolator {
	if f == Nearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ToPowerOfTwo resamples img so both sides are powers of two. Images that
// already qualify are returned unchanged.
func ToPowerOfTwo(img level.Image, f Filter) (level.Image, error) {
	if err := img.Validate(); err != nil {
		return level.Image{}, err
	}
	if IsPowerOfTwo(img.Width) && IsPowerOfTwo(img.Height) {
		return img, nil
	}
	if img.Empty() {
		return level.Image{}, fmt.Errorf("cannot resize empty %dx%d image", img.Width, img.Height)
	}

	src := &image.NRGBA{
		Pix:    img.Pixels,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	w, h := NextPowerOfTwo(img.Width), NextPowerOfTwo(img.Height)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	f.interpolator().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return level.Image{Width: w, Height: h, Pixels: dst.Pix}, nil
}
