package stage

import "testing"

func TestLoadScriptValidates(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no steps", `{"steps":[]}`},
		{"unknown action", `{"steps":[{"action":"dance"}]}`},
		{"publish without topic", `{"steps":[{"action":"publish"}]}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.doc), FormatJSON); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptRunnerSteps(t *testing.T) {
	src := `
steps:
  - action: transition
    payload: {from: A, to: B}
  - action: wait
    frames: 2
  - action: publish
    topic: custom
  - action: screenshot
    label: end
`
	r, err := LoadScript([]byte(src), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	bus := NewBus(nil)
	var got []TransitionRequest
	Handle(bus, TopicRequestSceneTransition, func(req TransitionRequest) { got = append(got, req) })
	custom := 0
	bus.Subscribe("custom", func(any) { custom++ })

	var shots []string
	r.Screenshot = func(label string) { shots = append(shots, label) }
	busy := true
	r.Busy = func() bool { return busy }
	r.Step(bus)
	if len(got) != 0 {
		t.Fatal("runner advanced while busy")
	}
	busy = false

	r.Step(bus) // transition
	if len(got) != 1 || got[0].To != "B" {
		t.Fatalf("got = %+v", got)
	}
	r.Step(bus) // wait starts
	r.Step(bus) // waiting
	if custom != 0 {
		t.Fatal("wait ended early")
	}
	r.Step(bus) // publish
	if custom != 1 || r.Done() {
		t.Errorf("custom=%d done=%v", custom, r.Done())
	}
	r.Step(bus) // screenshot
	if len(shots) != 1 || shots[0] != "end" || !r.Done() {
		t.Errorf("shots=%v done=%v", shots, r.Done())
	}
	r.Step(bus)
	if custom != 1 {
		t.Error("done runner published again")
	}
}
