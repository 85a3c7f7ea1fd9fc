package ecs

import (
	"testing"

	"github.com/phanxgames/stage"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiBridge(t *testing.T) {
	world := donburi.NewWorld()
	bus := stage.NewBus(nil)
	b := NewDonburiBridge(bus, world)
	if b == nil {
		t.Fatal("NewDonburiBridge returned nil")
	}
	for _, topic := range DefaultTopics {
		if n := bus.Subscribers(topic); n != 1 {
			t.Errorf("%s: subscribers = %d, want 1", topic, n)
		}
	}
}

func TestDonburiBridge_Forwards(t *testing.T) {
	world := donburi.NewWorld()
	bus := stage.NewBus(nil)
	NewDonburiBridge(bus, world)

	var received []SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e SceneEvent) {
		received = append(received, e)
	})

	bus.Publish(stage.TopicRequestSceneTransition, stage.TransitionRequest{From: "GameScene", To: "JumpScene"})
	bus.Publish(stage.TopicTransitionComplete, stage.SceneID("JumpScene"))

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before processing", len(received))
	}
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].Topic != stage.TopicRequestSceneTransition || received[0].Scene() != "GameScene" {
		t.Errorf("event 0: %+v", received[0])
	}
	if received[1].Topic != stage.TopicTransitionComplete || received[1].Scene() != "JumpScene" {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiBridge_CustomTopics(t *testing.T) {
	world := donburi.NewWorld()
	bus := stage.NewBus(nil)
	NewDonburiBridge(bus, world, "score")

	var got []SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e SceneEvent) {
		got = append(got, e)
	})

	bus.Publish(stage.TopicTransitionComplete, stage.SceneID("x"))
	bus.Publish("score", map[string]any{"from": "JumpScene", "points": 10})
	events.ProcessAllEvents(world)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Scene() != "JumpScene" {
		t.Errorf("Scene() = %q", got[0].Scene())
	}
}

func TestDonburiBridge_Close(t *testing.T) {
	world := donburi.NewWorld()
	bus := stage.NewBus(nil)
	b := NewDonburiBridge(bus, world)
	b.Close()

	count := 0
	SceneEventType.Subscribe(world, func(w donburi.World, e SceneEvent) {
		count++
	})
	bus.Publish(stage.TopicEndOverlay, stage.OverlayClose{From: "NovelOverlayScene"})
	events.ProcessAllEvents(world)

	if count != 0 {
		t.Errorf("expected no events after Close, got %d", count)
	}
	if bus.Subscribers(stage.TopicEndOverlay) != 0 {
		t.Error("subscriptions left after Close")
	}
}
