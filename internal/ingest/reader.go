package ingest

import (
	"errors"
	"io"
	"log"
	"net"

	"github.com/mosaicview/viewer/internal/session"
	"github.com/mosaicview/viewer/internal/wire"
)

// Reader owns one connection for its whole life: it parses frames off
// the wire and publishes them on the bus in the order the bytes arrived.
// Any read failure or clean end-of-stream produces exactly one
// session-ended event and terminates the reader; a dead connection is
// never retried.
type Reader struct {
	id   uint64
	conn net.Conn
	bus  chan<- session.Event
}

func NewReader(id uint64, conn net.Conn, bus chan<- session.Event) *Reader {
	return &Reader{id: id, conn: conn, bus: bus}
}

// Run loops until the connection ends. It blocks on network reads with
// no timeout, and on bus sends when the coordinator falls behind; both
// are the intended backpressure behavior. Run closes the connection on
// exit.
func (r *Reader) Run() {
	defer r.conn.Close()

	for {
		payload, err := wire.ReadFrame(r.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("Stream %d read error: %v", r.id, err)
			}
			r.bus <- session.Event{Type: session.EventSessionEnded, ID: r.id}
			return
		}
		r.bus <- session.Event{Type: session.EventFrame, ID: r.id, Payload: payload}
	}
}
