package ecs

import (
	"github.com/phanxgames/stage"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEvent is a bus message as seen by ECS systems.
type SceneEvent struct {
	Topic   string
	Payload any
}

// Scene returns the scene the event concerns: the completed scene for
// transition-complete, otherwise the requesting scene.
func (e SceneEvent) Scene() stage.SceneID {
	switch p := e.Payload.(type) {
	case stage.SceneID:
		return p
	case stage.TransitionRequest:
		return p.From
	case stage.ReturnRequest:
		return p.From
	case stage.OverlayRequest:
		return p.From
	case stage.OverlayClose:
		return p.From
	case map[string]any:
		if s, ok := p["from"].(string); ok {
			return stage.SceneID(s)
		}
	}
	return ""
}

// SceneEventType is the Donburi event type for bridged bus messages.
// Subscribe to this in your ECS systems and drain it with ProcessEvents.
var SceneEventType = events.NewEventType[SceneEvent]()

// Topics bridged by default.
var DefaultTopics = []string{
	stage.TopicRequestSceneTransition,
	stage.TopicReturnToNovel,
	stage.TopicRequestOverlay,
	stage.TopicEndOverlay,
	stage.TopicTransitionComplete,
}

// DonburiBridge forwards bus topics into a Donburi world.
type DonburiBridge struct {
	world donburi.World
	subs  []stage.Subscription
}

// NewDonburiBridge subscribes to topics (DefaultTopics when none are given)
// on bus and publishes every message to SceneEventType in world. Events are
// queued until the world processes them.
func NewDonburiBridge(bus *stage.Bus, world donburi.World, topics ...string) *DonburiBridge {
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	b := &DonburiBridge{world: world}
	for _, topic := range topics {
		topic := topic
		b.subs = append(b.subs, bus.Subscribe(topic, func(payload any) {
			SceneEventType.Publish(b.world, SceneEvent{Topic: topic, Payload: payload})
		}))
	}
	return b
}

// World returns the bridged world.
func (b *DonburiBridge) World() donburi.World {
	return b.world
}

// Close stops forwarding.
func (b *DonburiBridge) Close() {
	for _, s := range b.subs {
		s.Remove()
	}
	b.subs = nil
}
