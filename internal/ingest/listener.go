// Package ingest accepts inbound stream connections and turns their
// framed bytes into events on the bus. The listener owns the accept
// loop; each accepted connection gets its own reader goroutine, started
// by the coordinator when it processes the new-session event.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"

	"github.com/mosaicview/viewer/internal/session"
)

// Listener accepts stream connections on a TCP port and announces each
// one on the event bus with a freshly assigned session id.
type Listener struct {
	bus    chan<- session.Event
	ln     net.Listener
	nextID atomic.Uint64
}

// NewListener binds the TCP address. A bind failure is returned to the
// caller, where it is fatal: the viewer cannot start without its port.
func NewListener(host string, port int, bus chan<- session.Event) (*Listener, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	log.Printf("Listening for streams on %s", ln.Addr())
	return &Listener{bus: bus, ln: ln}, nil
}

// Addr returns the bound address, useful when port 0 was requested.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Run accepts connections until ctx is canceled. Accept errors are
// transient: they are logged and the loop continues. Each accepted
// connection is assigned the next session id and published as a
// new-session event; ids are never reused within a process lifetime, so
// a new connection can never collide with a still-present session.
func (l *Listener) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Println("Listener stopped")
				return
			}
			log.Printf("Accept error: %v", err)
			continue
		}

		id := l.nextID.Add(1)
		log.Printf("Stream %d connected from %s", id, conn.RemoteAddr())

		select {
		case l.bus <- session.Event{Type: session.EventNewSession, ID: id, Conn: conn}:
		case <-ctx.Done():
			// The watcher goroutine closes the listener.
			conn.Close()
			return
		}
	}
}
