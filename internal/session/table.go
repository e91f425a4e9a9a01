package session

import (
	"sort"
	"sync"

	"github.com/mosaicview/viewer/internal/layout"
)

// Table maps session ids to live sessions. Only the coordinator inserts,
// mutates, or removes entries; the lock exists so status observers can
// take read-only snapshots without touching coordinator state.
type Table struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

func NewTable() *Table {
	return &Table{
		sessions: make(map[uint64]*Session),
	}
}

// Insert adds a session. Coordinator only.
func (t *Table) Insert(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[s.ID] = s
}

// Lookup returns the live session for id. The returned pointer is owned
// by the coordinator; observers must use Views instead.
func (t *Table) Lookup(id uint64) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

// Mutate runs fn on the session with id under the write lock, so
// snapshot readers never observe a torn update. Coordinator only; fn
// must not block. Returns false when id is not in the table.
func (t *Table) Mutate(id uint64, fn func(*Session)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return false
	}
	fn(s)
	return true
}

// Remove deletes a session. Coordinator only. Removing an absent id is a
// no-op, so duplicate end events are harmless.
func (t *Table) Remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, id)
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Windows returns layout input for every session that currently has a
// window on screen.
func (t *Table) Windows() []layout.Window {
	t.mu.RLock()
	defer t.mu.RUnlock()
	windows := make([]layout.Window, 0, len(t.sessions))
	for _, s := range t.sessions {
		if s.State != Active {
			continue
		}
		windows = append(windows, layout.Window{
			ID:        s.ID,
			Width:     s.Width,
			Height:    s.Height,
			CreatedAt: s.CreatedAt,
		})
	}
	return windows
}

// Views returns snapshots of all sessions ordered by creation time (ids
// break ties), for status endpoints.
func (t *Table) Views() []View {
	t.mu.RLock()
	views := make([]View, 0, len(t.sessions))
	for _, s := range t.sessions {
		views = append(views, s.Snapshot())
	}
	t.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.Before(views[j].CreatedAt)
		}
		return views[i].ID < views[j].ID
	})
	return views
}
