package stage

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Bus topic names. These strings are the wire contract between requesters
// (dialogue scripts, UI) and the coordinator.
const (
	TopicRequestSceneTransition = "request-scene-transition"
	TopicReturnToNovel          = "return-to-novel"
	TopicRequestOverlay         = "request-overlay"
	TopicEndOverlay             = "end-overlay"
	TopicTransitionComplete     = "transition-complete"
)

type busHandler struct {
	id      uint32
	fn      func(any)
	once    bool
	removed bool
}

// Bus is a synchronous publish/subscribe hub keyed by topic. Publish runs
// every subscriber before returning; there is no queue.
type Bus struct {
	topics map[string][]*busHandler
	nextID uint32
	log    *slog.Logger
}

// Subscription allows removing a bus handler.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint32
}

// NewBus creates an empty bus. A nil logger discards output.
func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		topics: make(map[string][]*busHandler),
		log:    orDiscard(log),
	}
}

// Subscribe registers fn for every publication on topic.
func (b *Bus) Subscribe(topic string, fn func(payload any)) Subscription {
	return b.add(topic, fn, false)
}

// SubscribeOnce registers fn for the next publication on topic only.
func (b *Bus) SubscribeOnce(topic string, fn func(payload any)) Subscription {
	return b.add(topic, fn, true)
}

func (b *Bus) add(topic string, fn func(any), once bool) Subscription {
	b.nextID++
	b.topics[topic] = append(b.topics[topic], &busHandler{id: b.nextID, fn: fn, once: once})
	return Subscription{bus: b, topic: topic, id: b.nextID}
}

// Publish delivers payload to the topic's subscribers in registration order
// and returns how many ran.
func (b *Bus) Publish(topic string, payload any) int {
	handlers := b.topics[topic]
	if len(handlers) == 0 {
		b.log.Debug("publish without subscribers", "topic", topic)
		return 0
	}
	snapshot := make([]*busHandler, len(handlers))
	copy(snapshot, handlers)

	kept := handlers[:0]
	for _, h := range handlers {
		if !h.once {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(handlers); i++ {
		handlers[i] = nil
	}
	b.topics[topic] = kept

	ran := 0
	for _, h := range snapshot {
		if h.removed {
			continue
		}
		if h.once {
			h.removed = true
		}
		h.fn(payload)
		ran++
	}
	return ran
}

// Subscribers returns the number of handlers registered on topic.
func (b *Bus) Subscribers(topic string) int {
	return len(b.topics[topic])
}

// Remove unregisters the subscription. Safe to call more than once.
func (s Subscription) Remove() {
	if s.bus == nil {
		return
	}
	handlers := s.bus.topics[s.topic]
	for i, h := range handlers {
		if h.id == s.id {
			h.removed = true
			copy(handlers[i:], handlers[i+1:])
			handlers[len(handlers)-1] = nil
			s.bus.topics[s.topic] = handlers[:len(handlers)-1]
			return
		}
	}
}

// Handle subscribes fn to topic with payloads converted to T. Payloads may
// be T, *T, or a generic map (as produced by scripts) which is decoded using
// the json field names of T. Payloads that cannot be converted are logged
// and dropped.
func Handle[T any](b *Bus, topic string, fn func(T)) Subscription {
	return b.Subscribe(topic, func(payload any) {
		v, err := DecodePayload[T](payload)
		if err != nil {
			b.log.Warn("dropping malformed payload", "topic", topic, "err", err)
			return
		}
		fn(v)
	})
}

// payloadAliases maps alternate payload keys onto the canonical tag of the
// target type. The canonical key wins when both are present.
var payloadAliases = map[reflect.Type]map[string]string{
	reflect.TypeOf(OverlayRequest{}): {"content": "scenario"},
}

func aliasPayloadKeys(from, to reflect.Type, data any) (any, error) {
	aliases, ok := payloadAliases[to]
	if !ok || from.Kind() != reflect.Map || from.Key().Kind() != reflect.String {
		return data, nil
	}
	var m map[string]any
	switch v := data.(type) {
	case map[string]any:
		m = v
	case Params:
		m = v
	default:
		return data, nil
	}
	var out map[string]any
	for alias, canonical := range aliases {
		v, ok := m[alias]
		if !ok {
			continue
		}
		if _, set := m[canonical]; set {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(m))
			for k, v := range m {
				out[k] = v
			}
		}
		out[canonical] = v
		delete(out, alias)
	}
	if out == nil {
		return data, nil
	}
	return out, nil
}

// DecodePayload converts a bus payload into T.
func DecodePayload[T any](payload any) (T, error) {
	var out T
	switch p := payload.(type) {
	case T:
		return p, nil
	case *T:
		if p == nil {
			return out, fmt.Errorf("decode payload: nil %T", p)
		}
		return *p, nil
	case map[string]any, Params:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			DecodeHook:       aliasPayloadKeys,
			Result:           &out,
		})
		if err != nil {
			return out, fmt.Errorf("decode payload: %w", err)
		}
		if err := dec.Decode(p); err != nil {
			return out, fmt.Errorf("decode payload: %w", err)
		}
		return out, nil
	default:
		return out, fmt.Errorf("decode payload: unexpected %T, want %T", payload, out)
	}
}
