package stage

import "testing"

func TestBusPublishOrder(t *testing.T) {
	b := NewBus(nil)
	var order []int
	b.Subscribe("t", func(any) { order = append(order, 1) })
	b.SubscribeOnce("t", func(any) { order = append(order, 2) })
	b.Subscribe("t", func(any) { order = append(order, 3) })

	if n := b.Publish("t", nil); n != 3 {
		t.Errorf("Publish ran %d", n)
	}
	b.Publish("t", nil)
	want := []int{1, 2, 3, 1, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if b.Publish("none", nil) != 0 {
		t.Error("publish without subscribers should run nothing")
	}
}

func TestBusRemove(t *testing.T) {
	b := NewBus(nil)
	s := b.Subscribe("t", func(any) { t.Error("removed handler ran") })
	s.Remove()
	s.Remove()
	b.Publish("t", nil)
	if b.Subscribers("t") != 0 {
		t.Error("subscription not removed")
	}
}

func TestHandleDecodesPayloads(t *testing.T) {
	b := NewBus(nil)
	var got []TransitionRequest
	Handle(b, TopicRequestSceneTransition, func(r TransitionRequest) { got = append(got, r) })

	b.Publish(TopicRequestSceneTransition, TransitionRequest{From: "A", To: "B"})
	b.Publish(TopicRequestSceneTransition, &TransitionRequest{From: "B", To: "C"})
	b.Publish(TopicRequestSceneTransition, map[string]any{
		"from":   "C",
		"to":     "D",
		"params": map[string]any{"stage": 2},
	})
	b.Publish(TopicRequestSceneTransition, 42) // dropped

	if len(got) != 3 {
		t.Fatalf("got %d requests, want 3", len(got))
	}
	if got[2].From != "C" || got[2].To != "D" || got[2].Params["stage"] != 2 {
		t.Errorf("decoded = %+v", got[2])
	}
}

func TestDecodePayloadOverlayRequest(t *testing.T) {
	r, err := DecodePayload[OverlayRequest](map[string]any{
		"from":        "GameScene",
		"scenario":    "backlog",
		"block_input": false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.From != "GameScene" || r.Content != "backlog" || r.ShouldBlockInput() {
		t.Errorf("decoded = %+v", r)
	}

	r, err = DecodePayload[OverlayRequest](map[string]any{"from": "GameScene"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.ShouldBlockInput() {
		t.Error("BlockInput should default to true")
	}

	r, err = DecodePayload[OverlayRequest](Params{"from": "GameScene", "content": "backlog"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Content != "backlog" {
		t.Errorf("Content = %v, want backlog", r.Content)
	}

	r, err = DecodePayload[OverlayRequest](map[string]any{"from": "GameScene", "scenario": "intro", "content": "backlog"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Content != "intro" {
		t.Errorf("Content = %v, want intro", r.Content)
	}

	if _, err := DecodePayload[OverlayRequest](nil); err == nil {
		t.Error("nil payload should fail")
	}
}
