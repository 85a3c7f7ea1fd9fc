package demo

import (
	"errors"
	"fmt"

	"github.com/phanxgames/stage"
)

// ErrUnknownLabel is returned when a jump names a label the script lacks.
var ErrUnknownLabel = errors.New("unknown label")

// Line is one step of a novel script: a label marker, a line of dialogue,
// or a jump.
type Line struct {
	Label   string
	Speaker string
	Text    string
	Jump    *stage.JumpTag
}

// Novel is a tiny dialogue interpreter. It implements stage.Scenario.
type Novel struct {
	lines   []Line
	labels  map[string]int
	cursor  int
	stopped bool

	// Show receives each line of dialogue.
	Show func(Line)
	// OnJump executes jump lines.
	OnJump func(stage.JumpTag)
}

// NewNovel indexes the labels of lines.
func NewNovel(lines []Line) *Novel {
	n := &Novel{lines: lines, labels: make(map[string]int)}
	for i, l := range lines {
		if l.Label != "" {
			n.labels[l.Label] = i
		}
	}
	return n
}

// JumpTo implements stage.Scenario.
func (n *Novel) JumpTo(label string) error {
	i, ok := n.labels[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
	}
	n.cursor = i
	n.stopped = false
	return nil
}

// Next implements stage.Scenario. It runs until a line of dialogue is shown
// or a jump is executed.
func (n *Novel) Next() {
	for !n.stopped && n.cursor < len(n.lines) {
		l := n.lines[n.cursor]
		n.cursor++
		switch {
		case l.Jump != nil:
			if n.OnJump != nil {
				n.OnJump(*l.Jump)
			}
			return
		case l.Text != "":
			if n.Show != nil {
				n.Show(l)
			}
			return
		}
	}
}

// Stop implements stage.Scenario.
func (n *Novel) Stop() {
	n.stopped = true
}

// Stopped reports whether the novel was stopped.
func (n *Novel) Stopped() bool {
	return n.stopped
}

// Labels used by the home scene.
const (
	LabelStart  = "*start"
	LabelResume = "*resume"
)

// defaultScript is the home scene's dialogue.
func defaultScript() []Line {
	return []Line{
		{Label: LabelStart},
		{Speaker: "yuna", Text: "Welcome back."},
		{Speaker: "yuna", Text: "The jump course is open today."},
		{Speaker: "yuna", Text: "Give it a try!"},
		{Jump: &stage.JumpTag{Storage: SceneJump, Params: stage.Params{"stage": 1}}},
		{Label: LabelResume},
		{Speaker: "yuna", Text: "Nice run!"},
		{Speaker: "yuna", Text: "Again from the top?"},
		{Jump: &stage.JumpTag{Target: LabelStart}},
	}
}
