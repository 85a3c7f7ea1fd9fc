package stage

import (
	"fmt"
	"log/slog"
	"strings"
)

// Scenario is the script interpreter a Jumper drives.
type Scenario interface {
	// JumpTo moves the cursor to a label such as "*chapter2".
	JumpTo(label string) error
	// Next resumes execution from the cursor.
	Next()
	// Stop halts the interpreter.
	Stop()
}

// AutoSaver persists state before a scene is left.
type AutoSaver interface {
	AutoSave(slot int) error
}

// JumpTag is a jump instruction. Storage names a destination scene; Target
// names a label and must start with '*'. Storage wins when both are set.
type JumpTag struct {
	Storage SceneID `json:"storage,omitempty"`
	Target  string  `json:"target,omitempty"`
	Params  Params  `json:"params,omitempty"`
}

// JumpKind reports what a jump did.
type JumpKind uint8

const (
	JumpNone  JumpKind = iota // nothing happened
	JumpScene                 // a scene transition was requested
	JumpLabel                 // the scenario moved to a label
)

// Jumper executes jump instructions for a scene that hosts a scenario.
type Jumper struct {
	From     SceneID
	Bus      *Bus
	Scenario Scenario
	Saver    AutoSaver // optional
	Log      *slog.Logger
}

// Jump executes tag. A scene jump auto-saves to slot 0, publishes a
// transition request and stops the scenario; a failed save is logged and
// does not prevent the jump. A label jump moves the scenario and resumes it.
func (j *Jumper) Jump(tag JumpTag) (JumpKind, error) {
	log := orDiscard(j.Log)
	switch {
	case tag.Storage != "":
		log.Info("jump to scene", "from", j.From, "to", tag.Storage)
		if j.Saver != nil {
			if err := j.Saver.AutoSave(0); err != nil {
				log.Warn("auto save failed before jump", "from", j.From, "err", err)
			}
		}
		params := tag.Params
		if params == nil {
			params = Params{}
		}
		j.Bus.Publish(TopicRequestSceneTransition, TransitionRequest{From: j.From, To: tag.Storage, Params: params})
		j.Scenario.Stop()
		return JumpScene, nil

	case strings.HasPrefix(tag.Target, "*"):
		log.Debug("jump to label", "scene", j.From, "label", tag.Target)
		if err := j.Scenario.JumpTo(tag.Target); err != nil {
			return JumpNone, fmt.Errorf("jump to %s: %w", tag.Target, err)
		}
		j.Scenario.Next()
		return JumpLabel, nil

	default:
		log.Warn("jump without storage or label target", "scene", j.From, "target", tag.Target)
		return JumpNone, ErrInvalidJump
	}
}
