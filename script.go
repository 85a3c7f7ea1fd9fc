package stage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Script actions and the bus topics they publish to.
var scriptTopics = map[string]string{
	"transition":  TopicRequestSceneTransition,
	"return":      TopicReturnToNovel,
	"overlay":     TopicRequestOverlay,
	"end-overlay": TopicEndOverlay,
}

// scriptStep is a single action in a script.
type scriptStep struct {
	Action  string         `json:"action" yaml:"action"`
	Topic   string         `json:"topic,omitempty" yaml:"topic,omitempty"`
	Payload map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	Frames  int            `json:"frames,omitempty" yaml:"frames,omitempty"`
	Label   string         `json:"label,omitempty" yaml:"label,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps" yaml:"steps"`
}

// ScriptRunner replays bus requests across ticks for automated runs and
// smoke tests. Steps never advance while Busy reports true, so each request
// sees the coordinator idle.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// Busy gates advancement. Nil means never busy.
	Busy func() bool
	// Screenshot handles "screenshot" steps. Nil skips them.
	Screenshot func(label string)
}

// LoadScript parses a script document and returns a runner for it.
func LoadScript(data []byte, format LayoutFormat) (*ScriptRunner, error) {
	var s script
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &s)
	} else {
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "wait", "screenshot":
		case "publish":
			if st.Topic == "" {
				return nil, fmt.Errorf("parse script: step %d: publish without topic", i)
			}
		default:
			if _, ok := scriptTopics[st.Action]; !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
			}
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one tick, publishing at most one request.
func (r *ScriptRunner) Step(bus *Bus) {
	if r.done {
		return
	}
	if r.Busy != nil && r.Busy() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "screenshot":
		if r.Screenshot != nil {
			r.Screenshot(st.Label)
		}
	case "publish":
		bus.Publish(st.Topic, st.Payload)
	default:
		bus.Publish(scriptTopics[st.Action], st.Payload)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
