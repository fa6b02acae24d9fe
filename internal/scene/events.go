package scene

// EventType identifies the change notifications the engine emits.
type EventType int

const (
	// EventItemAdded fires after an item entered the scene. Data: items.Item.
	EventItemAdded EventType = iota
	// EventItemRemoved fires after an item left the scene. Data: items.Item.
	EventItemRemoved
	// EventNetChanged fires after a net's membership changed. Data: *netlist.Net.
	EventNetChanged
	// EventNetHighlighted fires after a net's highlight state changed.
	// Data: NetHighlight.
	EventNetHighlighted
	// EventDirtyChanged fires when the dirty flag flips. Data: bool.
	EventDirtyChanged
	// EventModeChanged fires when the interaction mode changes. Data: Mode.
	EventModeChanged
)

// Listener is called with the event payload. Notifications are delivered
// after the triggering edit has restored all invariants; listeners must not
// issue further edit intents synchronously.
type Listener func(data interface{})

type event struct {
	typ  EventType
	data interface{}
}

// On registers an event listener for the given event type.
func (s *Scene) On(typ EventType, l Listener) {
	if l == nil {
		return
	}
	s.listeners[typ] = append(s.listeners[typ], l)
}

// emit queues a notification; flushEvents delivers it once the current edit
// has completed.
func (s *Scene) emit(typ EventType, data interface{}) {
	s.pending = append(s.pending, event{typ: typ, data: data})
}

func (s *Scene) flushEvents() {
	for len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		for _, l := range s.listeners[ev.typ] {
			l(ev.data)
		}
	}
}
