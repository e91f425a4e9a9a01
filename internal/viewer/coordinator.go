// Package viewer runs the coordinator: the single goroutine that owns
// all session state. It drains the event bus, drives decoder and display
// lifecycles, and triggers window layout as streams come and go. No
// other goroutine touches the session table's contents, decoders, or
// displays; the listener and readers reach the coordinator only through
// bus events.
package viewer

import (
	"context"
	"log"
	"time"

	"github.com/mosaicview/viewer/internal/config"
	"github.com/mosaicview/viewer/internal/ingest"
	"github.com/mosaicview/viewer/internal/layout"
	"github.com/mosaicview/viewer/internal/media"
	"github.com/mosaicview/viewer/internal/session"
	"github.com/mosaicview/viewer/internal/status"
)

// DecoderFactory builds one decoder per accepted session.
type DecoderFactory func() (media.Decoder, error)

type Coordinator struct {
	tick    time.Duration
	padding int

	table      *session.Table
	bus        chan session.Event
	surface    media.Surface
	input      media.Input
	newDecoder DecoderFactory

	// notify may be nil when the status server is disabled; its
	// methods are nil-receiver safe.
	notify *status.Broadcaster
}

func New(cfg *config.Config, table *session.Table, bus chan session.Event, surface media.Surface, input media.Input, decoders DecoderFactory, notify *status.Broadcaster) *Coordinator {
	return &Coordinator{
		tick:       cfg.Viewer.Tick,
		padding:    cfg.Viewer.Padding,
		table:      table,
		bus:        bus,
		surface:    surface,
		input:      input,
		newDecoder: decoders,
		notify:     notify,
	}
}

// Run loops until a quit intent or ctx cancellation. Each tick polls
// the UI for quit intents without blocking, then waits up to the tick
// budget for one bus event. At most one event is processed per wakeup,
// so UI polling is never starved by a busy bus.
func (c *Coordinator) Run(ctx context.Context) {
	timer := time.NewTimer(c.tick)
	defer timer.Stop()

	for {
		if c.input.QuitRequested() {
			log.Println("Quit requested")
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.tick)

		select {
		case <-ctx.Done():
			log.Println("Coordinator stopped")
			return
		case ev := <-c.bus:
			c.handle(ev)
		case <-timer.C:
		}
	}
}

func (c *Coordinator) handle(ev session.Event) {
	switch ev.Type {
	case session.EventNewSession:
		c.addSession(ev)
	case session.EventFrame:
		c.feedFrame(ev)
	case session.EventSessionEnded:
		c.endSession(ev.ID)
	}
}

// addSession creates the session's decoder, registers it as Pending,
// and hands the connection to a reader goroutine wired to the same bus.
func (c *Coordinator) addSession(ev session.Event) {
	dec, err := c.newDecoder()
	if err != nil {
		log.Printf("Stream %d: decoder init failed: %v", ev.ID, err)
		ev.Conn.Close()
		return
	}

	s := &session.Session{
		ID:        ev.ID,
		Remote:    ev.Conn.RemoteAddr().String(),
		CreatedAt: time.Now(),
		State:     session.Pending,
		Decoder:   dec,
	}
	c.table.Insert(s)

	go ingest.NewReader(ev.ID, ev.Conn, c.bus).Run()

	c.notify.QueueUpdate(s.Snapshot())
}

// feedFrame decodes one access unit for its session. A frame for an id
// no longer in the table is stale (the session ended first) and is
// dropped. A decode failure is terminal for this session only. The
// display is created lazily from the first decoded picture's intrinsic
// size; if creation fails the session stays Pending and the next frame
// retries.
func (c *Coordinator) feedFrame(ev session.Event) {
	s, ok := c.table.Lookup(ev.ID)
	if !ok {
		return
	}

	c.table.Mutate(ev.ID, func(s *session.Session) {
		s.Frames++
		s.Bytes += uint64(len(ev.Payload))
		s.LastFrameAt = time.Now()
	})

	pic, err := s.Decoder.Feed(ev.Payload)
	if err != nil {
		log.Printf("Stream %d: decode error, ending session: %v", ev.ID, err)
		c.endSession(ev.ID)
		return
	}

	if s.Display == nil {
		d, err := c.surface.Create(s.Remote, pic.Width, pic.Height)
		if err != nil {
			log.Printf("Stream %d: display create failed: %v", ev.ID, err)
			return
		}
		c.table.Mutate(ev.ID, func(s *session.Session) {
			s.Display = d
			s.Width = pic.Width
			s.Height = pic.Height
			s.State = session.Active
		})
		if err := d.Update(pic); err != nil {
			log.Printf("Stream %d: display update error: %v", ev.ID, err)
		}
		c.arrange()
	} else {
		if err := s.Display.Update(pic); err != nil {
			log.Printf("Stream %d: display update error: %v", ev.ID, err)
		}
	}

	c.notify.QueueUpdate(s.Snapshot())
}

// endSession releases the session's display and decoder, removes it
// from the table, and recenters the remaining windows. Safe against
// duplicate end events: a second call for the same id finds nothing.
func (c *Coordinator) endSession(id uint64) {
	s, ok := c.table.Lookup(id)
	if !ok {
		return
	}

	if s.Display != nil {
		s.Display.Close()
	}
	s.Decoder.Close()
	c.table.Remove(id)
	log.Printf("Stream %d ended (%d frames, %d bytes)", id, s.Frames, s.Bytes)

	c.arrange()
	c.notify.QueueRemoval(id)
}

// arrange recomputes window positions for every visible session and
// applies them.
func (c *Coordinator) arrange() {
	windows := c.table.Windows()
	if len(windows) == 0 {
		return
	}
	screenW, screenH := c.surface.Bounds()
	for _, p := range layout.Arrange(windows, screenW, screenH, c.padding) {
		if s, ok := c.table.Lookup(p.ID); ok && s.Display != nil {
			s.Display.SetPosition(p.X, p.Y)
		}
	}
}
