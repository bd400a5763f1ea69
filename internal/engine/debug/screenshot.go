// Package debug provides debug capture utilities for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PixelReader reads back the current frame as RGBA8, bottom row first.
type PixelReader interface {
	ReadPixels(width, height int) []byte
}

// ScreenshotCapture writes frames to PNG files.
type ScreenshotCapture struct {
	target string
	prefix string
	now    func() time.Time
}

// NewScreenshotCapture creates a capture handler. A target ending in
// ".png" is used as the file name; anything else is a directory that
// receives timestamped files.
func NewScreenshotCapture(target string) *ScreenshotCapture {
	return &ScreenshotCapture{
		target: target,
		prefix: "hlviewer",
		now:    time.Now,
	}
}

// Filename returns the path the next capture will be written to.
func (sc *ScreenshotCapture) Filename() string {
	if strings.EqualFold(filepath.Ext(sc.target), ".png") {
		return sc.target
	}
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.target != "" {
		filename = filepath.Join(sc.target, filename)
	}
	return filename
}

// Capture reads the frame from src and saves it.
func (sc *ScreenshotCapture) Capture(src PixelReader, width, height int) (string, error) {
	return sc.CaptureFromPixels(src.ReadPixels(width, height), width, height)
}

// CaptureFromPixels captures a screenshot from raw pixel data.
// pixels should be in RGBA format with width*height*4 bytes.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	filename := sc.Filename()

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

// FlipRows converts bottom-up GL pixels into a top-down image.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return img, nil
}
