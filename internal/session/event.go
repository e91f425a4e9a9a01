package session

import "net"

// EventType classifies stream events on the bus.
type EventType int

const (
	EventNewSession   EventType = iota // connection accepted
	EventFrame                         // one framed access unit received
	EventSessionEnded                  // connection closed or failed
)

var eventNames = map[EventType]string{
	EventNewSession:   "new_session",
	EventFrame:        "frame",
	EventSessionEnded: "session_ended",
}

func (e EventType) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// Event is one message on the event bus. The listener and the
// per-connection readers produce them; the coordinator is the sole
// consumer. Conn is set only for EventNewSession, Payload only for
// EventFrame. Events for the same session arrive in production order;
// nothing is guaranteed across sessions.
type Event struct {
	Type    EventType
	ID      uint64
	Conn    net.Conn
	Payload []byte
}

// NewBus returns the bounded event channel shared by the listener, the
// readers, and the coordinator. Producers block when it fills, so a slow
// coordinator throttles readers instead of growing an unbounded queue.
func NewBus(capacity int) chan Event {
	if capacity < 1 {
		capacity = 1
	}
	return make(chan Event, capacity)
}
