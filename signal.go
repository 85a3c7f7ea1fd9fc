package stage

// Signal names used by scene lifecycles.
const (
	SignalSceneReady       = "scene-ready"
	SignalTeardownComplete = "teardown-complete"
	SignalSceneLoaded      = "scene-loaded"
)

type signalHandler struct {
	id      uint32
	fn      func()
	once    bool
	removed bool
}

// Signal is a named, synchronous notification with no payload. Handlers
// registered with Once fire at most one time: the signal removes them before
// invoking them, so a handler that re-emits the same signal cannot observe
// itself twice.
type Signal struct {
	name     string
	handlers []*signalHandler
	nextID   uint32
	emits    int
}

// SignalHandle allows removing a registered handler.
type SignalHandle struct {
	sig *Signal
	id  uint32
}

// NewSignal creates a signal with the given name.
func NewSignal(name string) *Signal {
	return &Signal{name: name}
}

// Name returns the signal's name.
func (s *Signal) Name() string {
	return s.name
}

// On registers fn to run on every emission.
func (s *Signal) On(fn func()) SignalHandle {
	return s.add(fn, false)
}

// Once registers fn to run on the next emission only.
func (s *Signal) Once(fn func()) SignalHandle {
	return s.add(fn, true)
}

func (s *Signal) add(fn func(), once bool) SignalHandle {
	s.nextID++
	s.handlers = append(s.handlers, &signalHandler{id: s.nextID, fn: fn, once: once})
	return SignalHandle{sig: s, id: s.nextID}
}

// Emit invokes the current handlers in registration order and returns how
// many ran. Handlers added during emission wait for the next one.
func (s *Signal) Emit() int {
	s.emits++
	snapshot := make([]*signalHandler, len(s.handlers))
	copy(snapshot, s.handlers)

	// Drop once-handlers before running anything.
	kept := s.handlers[:0]
	for _, h := range s.handlers {
		if !h.once {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(s.handlers); i++ {
		s.handlers[i] = nil
	}
	s.handlers = kept

	ran := 0
	for _, h := range snapshot {
		if h.removed {
			continue
		}
		if h.once {
			h.removed = true
		}
		h.fn()
		ran++
	}
	return ran
}

// Len returns the number of registered handlers.
func (s *Signal) Len() int {
	return len(s.handlers)
}

// Emits returns how many times the signal has been emitted.
func (s *Signal) Emits() int {
	return s.emits
}

// Clear removes every handler.
func (s *Signal) Clear() {
	for _, h := range s.handlers {
		h.removed = true
	}
	s.handlers = nil
}

// Remove unregisters the handler so it no longer fires. Safe to call more
// than once and after a once-handler has fired.
func (h SignalHandle) Remove() {
	if h.sig == nil {
		return
	}
	s := h.sig
	for i, sh := range s.handlers {
		if sh.id == h.id {
			sh.removed = true
			copy(s.handlers[i:], s.handlers[i+1:])
			s.handlers[len(s.handlers)-1] = nil
			s.handlers = s.handlers[:len(s.handlers)-1]
			return
		}
	}
}
