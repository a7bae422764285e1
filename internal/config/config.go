// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// CameraConfig holds projection and control settings.
type CameraConfig struct {
	FOV        float32 `yaml:"fov"`         // Vertical field of view in degrees
	Near       float32 `yaml:"near"`        // Near clip plane
	Far        float32 `yaml:"far"`         // Far clip plane
	OrbitSpeed float32 `yaml:"orbit_speed"` // Degrees per dragged pixel
	ZoomSpeed  float32 `yaml:"zoom_speed"`  // Distance fraction per wheel tick
	PanSpeed   float32 `yaml:"pan_speed"`   // Keyboard pan factor, scales with zoom distance
}

// SceneConfig holds lighting and asset settings.
type SceneConfig struct {
	TextureDir string  `yaml:"texture_dir"` // Where material names resolve to .tga files
	Ambient    float32 `yaml:"ambient"`     // Ambient light intensity, 0..1
	Wireframe  bool    `yaml:"wireframe"`   // Start in wireframe mode
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			FOV:        60,
			Near:       0.1,
			Far:        500,
			OrbitSpeed: 0.25,
			ZoomSpeed:  0.1,
			PanSpeed:   2,
		},
		Scene: SceneConfig{
			TextureDir: "assets/textures",
			Ambient:    0.35,
			Wireframe:  false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
