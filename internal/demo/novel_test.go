package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/stage"
)

func TestNovel(t *testing.T) {
	var shown []string
	var jumps []stage.JumpTag
	n := NewNovel([]Line{
		{Label: "*a"},
		{Text: "one"},
		{Text: "two"},
		{Jump: &stage.JumpTag{Target: "*b"}},
		{Label: "*b"},
		{Text: "three"},
	})
	n.Show = func(l Line) { shown = append(shown, l.Text) }
	n.OnJump = func(tag stage.JumpTag) { jumps = append(jumps, tag) }

	require.NoError(t, n.JumpTo("*a"))
	n.Next()
	n.Next()
	n.Next()
	assert.Equal(t, []string{"one", "two"}, shown)
	require.Len(t, jumps, 1)

	require.NoError(t, n.JumpTo("*b"))
	n.Next()
	assert.Equal(t, []string{"one", "two", "three"}, shown)

	n.Stop()
	n.Next()
	assert.True(t, n.Stopped())
	assert.Len(t, shown, 3)

	err := n.JumpTo("*missing")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestNovelDrivenByJumper(t *testing.T) {
	bus := stage.NewBus(nil)
	var got []stage.TransitionRequest
	stage.Handle(bus, stage.TopicRequestSceneTransition, func(r stage.TransitionRequest) { got = append(got, r) })

	n := NewNovel(defaultScript())
	j := &stage.Jumper{From: SceneGame, Bus: bus, Scenario: n}
	n.OnJump = func(tag stage.JumpTag) { _, _ = j.Jump(tag) }

	require.NoError(t, n.JumpTo(LabelResume))
	n.Next()
	n.Next()
	n.Next() // jump back to *start resumes at the first line
	assert.False(t, n.Stopped())
	assert.Empty(t, got)

	n.Next()
	n.Next()
	n.Next() // storage jump
	require.Len(t, got, 1)
	assert.Equal(t, SceneJump, got[0].To)
	assert.True(t, n.Stopped())
}
