// Package config loads the runtime settings of a stage application: a YAML
// file overlaid with STAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Title is the window title.
	Title string `yaml:"title" env:"STAGE_TITLE"`
	// Width and Height are the logical screen size.
	Width  int `yaml:"width" env:"STAGE_WIDTH"`
	Height int `yaml:"height" env:"STAGE_HEIGHT"`
	// AssetDir holds textures (*.png).
	AssetDir string `yaml:"assetDir" env:"STAGE_ASSET_DIR"`
	// LayoutDir holds scene layout documents (<scene>.json or .yaml).
	LayoutDir string `yaml:"layoutDir" env:"STAGE_LAYOUT_DIR"`
	// ExportDir is where the inspector writes edited layouts.
	ExportDir string `yaml:"exportDir" env:"STAGE_EXPORT_DIR"`
	// ScreenshotDir receives captured frames.
	ScreenshotDir string `yaml:"screenshotDir" env:"STAGE_SCREENSHOT_DIR"`
	// Scenes names the scenes with a fixed role.
	Scenes Scenes `yaml:"scenes" envPrefix:"STAGE_"`
	// Debug enables debug checks and the inspector.
	Debug bool `yaml:"debug" env:"STAGE_DEBUG"`
	// ShowFPS draws the FPS overlay.
	ShowFPS bool `yaml:"showFPS" env:"STAGE_SHOW_FPS"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel" env:"STAGE_LOG_LEVEL"`
	// Script is an optional script file replayed at startup.
	Script string `yaml:"script" env:"STAGE_SCRIPT"`
}

// Scenes names the scenes with a fixed role.
type Scenes struct {
	Start   string `yaml:"start" env:"START_SCENE"`
	Home    string `yaml:"home" env:"HOME_SCENE"`
	HUD     string `yaml:"hud" env:"HUD_SCENE"`
	Overlay string `yaml:"overlay" env:"OVERLAY_SCENE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:         "stage",
		Width:         1280,
		Height:        720,
		AssetDir:      "assets/images",
		LayoutDir:     "assets/data/scenes",
		ExportDir:     "export",
		ScreenshotDir: "screenshots",
		Scenes: Scenes{
			Start:   "GameScene",
			Home:    "GameScene",
			HUD:     "UIScene",
			Overlay: "NovelOverlayScene",
		},
		LogLevel: "info",
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", c.Width, c.Height))
	}
	if c.LayoutDir == "" {
		errs = append(errs, errors.New("layoutDir is required"))
	}
	if c.Scenes.Start == "" {
		errs = append(errs, errors.New("scenes.start is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
