package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "GameScene", cfg.Scenes.Home)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
title: Demo
width: 800
height: 600
layoutDir: data/scenes
scenes:
  start: JumpScene
  hud: ""
debug: true
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Demo", cfg.Title)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, "data/scenes", cfg.LayoutDir)
	assert.Equal(t, "JumpScene", cfg.Scenes.Start)
	assert.Empty(t, cfg.Scenes.HUD)
	assert.Equal(t, "GameScene", cfg.Scenes.Home, "unset keys keep defaults")
	assert.True(t, cfg.Debug)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "width: 800\nlogLevel: warn\n")
	t.Setenv("STAGE_WIDTH", "1024")
	t.Setenv("STAGE_START_SCENE", "JumpScene")
	t.Setenv("STAGE_DEBUG", "true")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "JumpScene", cfg.Scenes.Start)
	assert.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "width: [1"))
		require.Error(t, err)
	})
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("STAGE_HEIGHT", "tall")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "width: 0\nscenes:\n  start: \"\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "screen size")
		assert.Contains(t, err.Error(), "scenes.start")
	})
}
