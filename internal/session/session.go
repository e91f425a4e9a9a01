package session

import (
	"encoding/json"
	"time"

	"github.com/mosaicview/viewer/internal/media"
)

// State is a session's position in its lifecycle. A session is Pending
// from acceptance until its first successful decode, Active while it has
// an on-screen window, and Ended once removed from the table. Ended is
// terminal.
type State int

const (
	Pending State = iota
	Active
	Ended
)

var stateNames = map[State]string{
	Pending: "pending",
	Active:  "active",
	Ended:   "ended",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Session tracks one connected stream from acceptance through
// decode/display to teardown. The coordinator goroutine exclusively owns
// every field: the decoder from creation, the display from the first
// successful decode, and the intrinsic width/height once the display
// exists (fixed thereafter).
type Session struct {
	ID        uint64
	Remote    string
	CreatedAt time.Time
	State     State

	Decoder media.Decoder
	Display media.Display

	Width  int
	Height int

	Frames      uint64
	Bytes       uint64
	LastFrameAt time.Time
}

// View is a read-only snapshot of a session, safe to hand to observers
// outside the coordinator goroutine.
type View struct {
	ID          uint64    `json:"id"`
	Remote      string    `json:"remote"`
	State       State     `json:"state"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Frames      uint64    `json:"frames"`
	Bytes       uint64    `json:"bytes"`
	CreatedAt   time.Time `json:"createdAt"`
	LastFrameAt time.Time `json:"lastFrameAt,omitzero"`
}

// Snapshot builds a View of the session's current state.
func (s *Session) Snapshot() View {
	return View{
		ID:          s.ID,
		Remote:      s.Remote,
		State:       s.State,
		Width:       s.Width,
		Height:      s.Height,
		Frames:      s.Frames,
		Bytes:       s.Bytes,
		CreatedAt:   s.CreatedAt,
		LastFrameAt: s.LastFrameAt,
	}
}
