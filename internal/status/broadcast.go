// Package status publishes read-only session state to observers over
// HTTP and websockets. It is strictly an observer of the coordinator's
// work: it snapshots the session table and receives transition
// notifications, and never mutates session state.
package status

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mosaicview/viewer/internal/session"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// close retires the client. The send channel is never closed: broadcasts
// racing a removal may still send on it, and writePump simply stops
// draining once done is closed.
func (c *client) close() {
	close(c.done)
}

// Broadcaster fans session transitions out to websocket observers.
// Updates are coalesced for a throttle interval before flushing; full
// snapshots go out periodically so late or lossy observers converge.
type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]bool
	table          *session.Table
	throttle       time.Duration
	pendingUpdates []session.View
	pendingRemoved []uint64
	flushTimer     *time.Timer
	flushMu        sync.Mutex
}

func NewBroadcaster(table *session.Table, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		table:    table,
		throttle: throttle,
	}
	go b.snapshotLoop(time.NewTicker(snapshotInterval))
	return b
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	data, _ := json.Marshal(b.snapshot())
	select {
	case c.send <- data:
	default:
		// Client too slow for even the greeting snapshot; the
		// periodic snapshot will catch it up if it survives.
	}
	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// QueueUpdate coalesces a session view change into the next delta.
// Nil-receiver safe so callers can treat a disabled status server as a
// nil broadcaster.
func (b *Broadcaster) QueueUpdate(view session.View) {
	if b == nil {
		return
	}
	b.flushMu.Lock()
	defer b.flushMu.Unlock()
	b.pendingUpdates = append(b.pendingUpdates, view)
	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

// QueueRemoval coalesces a session removal into the next delta.
func (b *Broadcaster) QueueRemoval(id uint64) {
	if b == nil {
		return
	}
	b.flushMu.Lock()
	defer b.flushMu.Unlock()
	b.pendingRemoved = append(b.pendingRemoved, id)
	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	updates := b.pendingUpdates
	removed := b.pendingRemoved
	b.pendingUpdates = nil
	b.pendingRemoved = nil
	b.flushTimer = nil
	b.flushMu.Unlock()

	if len(updates) == 0 && len(removed) == 0 {
		return
	}
	b.broadcast(Message{
		Type: MsgDelta,
		Payload: DeltaPayload{
			Updates: updates,
			Removed: removed,
		},
	})
}

func (b *Broadcaster) snapshot() Message {
	return Message{
		Type: MsgSnapshot,
		Payload: SnapshotPayload{
			Sessions: b.table.Views(),
		},
	}
}

func (b *Broadcaster) snapshotLoop(ticker *time.Ticker) {
	for range ticker.C {
		b.broadcast(b.snapshot())
	}
}

func (b *Broadcaster) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("status broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		case <-c.done:
			// Removed between the snapshot of the client set and
			// this send; nothing to deliver.
		default:
			// Observer can't keep up; drop it rather than stall.
			log.Printf("status client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
