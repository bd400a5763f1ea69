// Package viewer runs the level viewer: window, renderer, scene and the
// main loop.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/config"
	"github.com/Faultbox/hlviewer/internal/engine/camera"
	"github.com/Faultbox/hlviewer/internal/engine/debug"
	"github.com/Faultbox/hlviewer/internal/engine/entity"
	"github.com/Faultbox/hlviewer/internal/engine/gpu"
	"github.com/Faultbox/hlviewer/internal/engine/input"
	"github.com/Faultbox/hlviewer/internal/engine/renderer"
	"github.com/Faultbox/hlviewer/internal/engine/scene"
	"github.com/Faultbox/hlviewer/internal/engine/texture"
	"github.com/Faultbox/hlviewer/internal/engine/window"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/pkg/level"
	"github.com/Faultbox/hlviewer/pkg/math"
)

// Device is a gpu.Device that also owns the default framebuffer.
type Device interface {
	gpu.Device
	Begin()
	Resize(width, height int)
}

// Surface presents finished frames.
type Surface interface {
	SwapBuffers()
	GetDrawableSize() (int, int)
}

// Events reports viewer events once per frame.
type Events interface {
	Update() bool
	Events() []input.Event
}

// Viewer is the main viewer instance.
type Viewer struct {
	config *config.Config
	log    *zap.Logger

	surface Surface
	device  Device
	events  Events
	scene   *scene.Scene
	camera  *camera.FirstPerson

	entities []entity.Entity
	running  bool

	// close releases platform resources after the scene is destroyed.
	close func()
}

// New opens the window and creates the renderer and scene.
func New(cfg *config.Config) (*Viewer, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	win, err := window.New(window.Config{
		Title:      "hlviewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Hidden:     cfg.Debug.Screenshot != "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	width, height := win.GetDrawableSize()
	r, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Render.ClearColor,
	})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v, err := newViewer(cfg, win, r, input.New())
	if err != nil {
		r.Close()
		win.Close()
		return nil, err
	}
	v.close = func() {
		r.Close()
		win.Close()
	}
	return v, nil
}

func newViewer(cfg *config.Config, surface Surface, dev Device, events Events) (*Viewer, error) {
	sc, err := scene.New(dev, scene.Config{
		Filter:        texture.Filter(cfg.Render.Resample),
		MaxAnisotropy: cfg.Render.MaxAnisotropy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	width, height := surface.GetDrawableSize()
	cam := camera.NewFirstPerson(cfg.Graphics.FOV, 1, cfg.Graphics.Near, cfg.Graphics.Far)
	cam.SetAspect(width, height)
	cam.Pos = math.V3(cfg.Camera.Position)
	cam.SetAngles(cfg.Camera.Rotation)

	return &Viewer{
		config:  cfg,
		log:     logger.Named("viewer"),
		surface: surface,
		device:  dev,
		events:  events,
		scene:   sc,
		camera:  cam,
	}, nil
}

// Load reads a level snapshot and makes it the current map.
func (v *Viewer) Load(path string) error {
	lvl, err := level.LoadFile(path)
	if err != nil {
		return err
	}
	return v.ChangeMap(lvl)
}

// ChangeMap switches the scene to lvl and resolves its entities.
func (v *Viewer) ChangeMap(lvl *level.Level) error {
	start := time.Now()
	if err := v.scene.ChangeMap(lvl); err != nil {
		v.entities = nil
		return err
	}
	v.entities = entity.ResolveAll(lvl.Entities)

	v.log.Info("map changed",
		zap.String("name", lvl.Name),
		zap.Int("entities", len(v.entities)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *camera.FirstPerson {
	return v.camera
}

// Frame clears the framebuffer and draws the scene once.
func (v *Viewer) Frame() scene.FrameStats {
	v.device.Begin()
	return v.scene.Draw(v.camera, v.entities)
}

// Screenshot renders one frame and writes it to the configured target.
func (v *Viewer) Screenshot() (string, error) {
	v.Frame()
	width, height := v.surface.GetDrawableSize()
	path, err := debug.NewScreenshotCapture(v.config.Debug.Screenshot).Capture(v.device, width, height)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	v.log.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()
	var last scene.FrameStats

	v.log.Info("starting main loop")

	for v.running {
		if v.events.Update() {
			v.running = false
			break
		}

		for _, event := range v.events.Events() {
			if event.Type == input.EventWindowResize {
				v.resize()
			}
		}

		last = v.Frame()
		v.surface.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.config.Debug.FrameStats {
				v.logStats(frameCount, last)
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) resize() {
	width, height := v.surface.GetDrawableSize()
	v.device.Resize(width, height)
	v.camera.SetAspect(width, height)
}

func (v *Viewer) logStats(fps int, stats scene.FrameStats) {
	v.log.Debug("frame",
		zap.Int("fps", fps),
		zap.Int("draw_calls", stats.DrawCalls),
		zap.Int("texture_binds", stats.TextureBinds),
		zap.Int("opaque", stats.Opaque),
		zap.Int("transparent", stats.Transparent),
		zap.Int("skipped", stats.Skipped),
	)
}

// Close releases the scene and platform resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.close != nil {
		v.close()
	}
}
