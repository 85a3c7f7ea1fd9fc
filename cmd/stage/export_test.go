package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/assets"
)

var quiet = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

func TestExportSceneRoundTrip(t *testing.T) {
	data, err := exportScene(assets.FS, assets.LayoutDir, "JumpScene", stage.FormatJSON, quiet)
	require.NoError(t, err)

	d, err := stage.ParseLayout(data, stage.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, d.Validate())
	assert.Equal(t, stage.SceneID("JumpScene"), d.Scene)
	require.Len(t, d.Objects, 7)

	player := d.Objects[3]
	assert.Equal(t, "player", player.Name)
	assert.Equal(t, "rect", player.Type)
	require.NotNil(t, player.Physics)
	assert.True(t, player.Physics.AllowGravity)
	assert.Equal(t, 0.2, player.Physics.BounceY)
}

func TestExportSceneNormalizes(t *testing.T) {
	fsys := fstest.MapFS{
		"l/s.yaml": {Data: []byte(`
objects:
  - name: hero_a
    x: 10.4
    alpha: 0.456
  - name: hero_a
  - name: bad
    physics: {width: -1, height: 2}
`)},
	}
	data, err := exportScene(fsys, "l", "s", stage.FormatYAML, quiet)
	require.NoError(t, err)

	d, err := stage.ParseLayout(data, stage.FormatYAML)
	require.NoError(t, err)
	require.Len(t, d.Objects, 2, "duplicate dropped")
	assert.Equal(t, 10.0, d.Objects[0].X)
	assert.Equal(t, 0.46, d.Objects[0].Alpha)
	assert.Equal(t, "hero", d.Objects[0].Texture)
	assert.Nil(t, d.Objects[1].Physics, "invalid body not attached")
}

func TestExportSceneMissing(t *testing.T) {
	_, err := exportScene(fstest.MapFS{}, ".", "Nope", stage.FormatJSON, quiet)
	assert.ErrorIs(t, err, stage.ErrLayoutNotFound)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Menu.json"),
		[]byte(`{"objects":[{"name":"title","type":"text","params":{"text":"hi"}}]}`), 0o644))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"export", "Menu", "--dir", dir, "--format", "yaml", "--log-level", "error"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "name: title")
	assert.Contains(t, out.String(), "type: text")

	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"export", "Menu", "--dir", dir, "--format", "xml"})
	assert.Error(t, root.Execute())
}
