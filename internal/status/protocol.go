package status

import (
	"github.com/mosaicview/viewer/internal/session"
)

type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgDelta    MessageType = "delta"
)

// Message is the JSON envelope sent to websocket observers.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

type SnapshotPayload struct {
	Sessions []session.View `json:"sessions"`
}

type DeltaPayload struct {
	Updates []session.View `json:"updates,omitempty"`
	Removed []uint64       `json:"removed,omitempty"`
}
