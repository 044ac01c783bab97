package layout

// EventKind identifies a notification emitted by a Graph.
type EventKind uint8

const (
	EventNodeClick EventKind = iota + 1
	EventNodeDoubleClick
	EventLinkClick
	EventLinkDoubleClick
	EventGravity
	EventStructure
	EventReload
)

func (k EventKind) String() string {
	switch k {
	case EventNodeClick:
		return "node_click"
	case EventNodeDoubleClick:
		return "node_dblclick"
	case EventLinkClick:
		return "link_click"
	case EventLinkDoubleClick:
		return "link_dblclick"
	case EventGravity:
		return "gravity"
	case EventStructure:
		return "structure"
	case EventReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Event is a notification for the surface driving a Graph.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind `json:"kind"`
	NodeID  string    `json:"node_id,omitempty"`
	LinkID  string    `json:"link_id,omitempty"`
	Op      string    `json:"op,omitempty"`
	Gravity bool      `json:"gravity,omitempty"`
}

// Observer receives events synchronously on the goroutine driving the Graph.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) OnEvent(Event) {}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name. Unknown names decode to zero.
func (k *EventKind) UnmarshalText(text []byte) error {
	*k = 0
	for c := EventNodeClick; c <= EventReload; c++ {
		if c.String() == string(text) {
			*k = c
			break
		}
	}
	return nil
}
