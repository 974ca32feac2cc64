// Package config loads game settings from defaults, an optional YAML file
// and PINCHHANOI_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PINCHHANOI_"

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds every user-tunable setting.
type Config struct {
	CameraID        int     `yaml:"camera_id" env:"CAMERA_ID"`
	Discs           int     `yaml:"discs" env:"DISCS"`
	SmoothingWindow int     `yaml:"smoothing_window" env:"SMOOTHING_WINDOW"`
	PinchIndex      float64 `yaml:"pinch_index" env:"PINCH_INDEX"`
	PinchMiddle     float64 `yaml:"pinch_middle" env:"PINCH_MIDDLE"`
	TargetFPS       int     `yaml:"target_fps" env:"TARGET_FPS"`
	Width           int     `yaml:"width" env:"WIDTH"`
	Height          int     `yaml:"height" env:"HEIGHT"`
	Mirror          bool    `yaml:"mirror" env:"MIRROR"`

	MaxHands               int     `yaml:"max_hands" env:"MAX_HANDS"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence" env:"MIN_DETECTION_CONFIDENCE"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence" env:"MIN_TRACKING_CONFIDENCE"`

	// Addr is the HTTP listen address; empty disables the server.
	Addr      string `yaml:"addr" env:"ADDR"`
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR"`
	DataDir   string `yaml:"data_dir" env:"DATA_DIR"`
	HooksDir  string `yaml:"hooks_dir" env:"HOOKS_DIR"`

	Window bool `yaml:"window" env:"WINDOW"`
	Tray   bool `yaml:"tray" env:"TRAY"`
}

// HomeDir returns ~/.pinchhanoi, or a relative .pinchhanoi when the home
// directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pinchhanoi"
	}
	return filepath.Join(home, ".pinchhanoi")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() Config {
	home := HomeDir()
	return Config{
		CameraID:               0,
		Discs:                  3,
		SmoothingWindow:        5,
		PinchIndex:             0.05,
		PinchMiddle:            0.08,
		TargetFPS:              30,
		Width:                  1000,
		Height:                 600,
		Mirror:                 true,
		MaxHands:               1,
		MinDetectionConfidence: 0.85,
		MinTrackingConfidence:  0.85,
		Addr:                   "127.0.0.1:8080",
		DataDir:                home,
		HooksDir:               filepath.Join(home, "hooks"),
		Window:                 true,
		Tray:                   false,
	}
}

// Load builds a Config from defaults, the YAML file at path (DefaultPath
// when empty; a missing file is not an error) and the environment. The
// result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Discs < 1:
		return fmt.Errorf("%w: discs must be at least 1, got %d", ErrInvalid, c.Discs)
	case c.SmoothingWindow < 1:
		return fmt.Errorf("%w: smoothing_window must be at least 1, got %d", ErrInvalid, c.SmoothingWindow)
	case c.TargetFPS < 1:
		return fmt.Errorf("%w: target_fps must be at least 1, got %d", ErrInvalid, c.TargetFPS)
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Width, c.Height)
	case c.PinchIndex <= 0 || c.PinchIndex >= 1:
		return fmt.Errorf("%w: pinch_index must be in (0,1), got %v", ErrInvalid, c.PinchIndex)
	case c.PinchMiddle <= 0 || c.PinchMiddle >= 1:
		return fmt.Errorf("%w: pinch_middle must be in (0,1), got %v", ErrInvalid, c.PinchMiddle)
	case c.MaxHands < 1:
		return fmt.Errorf("%w: max_hands must be at least 1, got %d", ErrInvalid, c.MaxHands)
	case c.MinDetectionConfidence < 0 || c.MinDetectionConfidence > 1:
		return fmt.Errorf("%w: min_detection_confidence must be in [0,1], got %v", ErrInvalid, c.MinDetectionConfidence)
	case c.MinTrackingConfidence < 0 || c.MinTrackingConfidence > 1:
		return fmt.Errorf("%w: min_tracking_confidence must be in [0,1], got %v", ErrInvalid, c.MinTrackingConfidence)
	case c.CameraID < 0:
		return fmt.Errorf("%w: camera_id must not be negative, got %d", ErrInvalid, c.CameraID)
	}
	return nil
}
