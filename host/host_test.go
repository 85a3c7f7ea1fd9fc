package host

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtlasHash(t *testing.T) {
	data := []byte(`{"frames":{
		"chara_yuna":{"frame":{"x":0,"y":0,"w":64,"h":128}},
		"background":{"frame":{"x":64,"y":0,"w":32,"h":32},"rotated":true}
	}}`)
	frames, err := parseAtlas(data)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, "background", frames[0].Name)
	assert.True(t, frames[0].Rotated)
	assert.Equal(t, image.Rect(64, 0, 96, 32), frames[0].Rect)
	assert.Equal(t, "chara_yuna", frames[1].Name)
	assert.Equal(t, 0, frames[1].Page)
}

func TestParseAtlasPages(t *testing.T) {
	data := []byte(`{"textures":[
		{"image":"a.png","frames":{"a1":{"frame":{"x":0,"y":0,"w":1,"h":1}}}},
		{"image":"b.png","frames":{"b1":{"frame":{"x":2,"y":3,"w":4,"h":5}}}}
	]}`)
	frames, err := parseAtlas(data)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 1, frames[1].Page)
	assert.Equal(t, image.Rect(2, 3, 6, 8), frames[1].Rect)
}

func TestParseAtlasErrors(t *testing.T) {
	_, err := parseAtlas([]byte(`{`))
	assert.Error(t, err)
	_, err = parseAtlas([]byte(`{"meta":{}}`))
	assert.ErrorContains(t, err, "neither")
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "unlabeled", sanitizeLabel("  "))
	assert.Equal(t, "jump_scene-1.final", sanitizeLabel("jump scene-1.final"))
	assert.Equal(t, "a_b", sanitizeLabel("a/b"))
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{64, 32, 0, 128, 10, 20, 30, 255, 5, 5, 5, 0}
	unpremultiply(pix)
	assert.Equal(t, []byte{127, 63, 0, 128, 10, 20, 30, 255, 5, 5, 5, 0}, pix)
}

func TestCapturerQueue(t *testing.T) {
	c := NewCapturer(t.TempDir(), nil)
	c.Queue("start")
	c.Queue("after jump")
	assert.Equal(t, 2, c.Pending())
}
