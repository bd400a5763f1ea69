// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Level    LevelConfig    `yaml:"level"`
	Camera   CameraConfig   `yaml:"camera"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // vertical, degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// RenderConfig holds scene rendering settings.
type RenderConfig struct {
	// MaxAnisotropy caps the anisotropic filtering level; 0 uses the device maximum.
	MaxAnisotropy float32    `yaml:"max_anisotropy"`
	Resample      string     `yaml:"resample"` // "bilinear" or "nearest"
	ClearColor    [3]float32 `yaml:"clear_color"`
}

// LevelConfig points at the level snapshot to load.
type LevelConfig struct {
	Path string `yaml:"path"`
}

// CameraConfig holds the initial camera placement.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"` // pitch, yaw, roll in degrees
}

// DebugConfig holds debugging aids.
type DebugConfig struct {
	Screenshot string `yaml:"screenshot"` // render one frame to this PNG and exit
	FrameStats bool   `yaml:"frame_stats"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        70,
			Near:       1,
			Far:        8192,
		},
		Render: RenderConfig{
			MaxAnisotropy: 0,
			Resample:      "bilinear",
			ClearColor:    [3]float32{0, 0, 0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
