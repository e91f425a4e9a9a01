package session

import (
	"testing"
	"time"
)

func TestNewTableEmpty(t *testing.T) {
	tbl := NewTable()
	if got := tbl.Len(); got != 0 {
		t.Errorf("new table Len() = %d, want 0", got)
	}
	if _, ok := tbl.Lookup(1); ok {
		t.Error("Lookup on empty table returned ok=true")
	}
}

func TestInsertLookupRemove(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(&Session{ID: 7, Remote: "10.0.0.1:5000"})

	s, ok := tbl.Lookup(7)
	if !ok {
		t.Fatal("Lookup returned ok=false after Insert")
	}
	if s.Remote != "10.0.0.1:5000" {
		t.Errorf("Remote = %q, want %q", s.Remote, "10.0.0.1:5000")
	}

	tbl.Remove(7)
	if _, ok := tbl.Lookup(7); ok {
		t.Error("Lookup returned ok=true after Remove")
	}
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() after Remove = %d, want 0", got)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(&Session{ID: 1})
	tbl.Remove(99)
	tbl.Remove(99)
	if got := tbl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestMutate(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(&Session{ID: 3})

	if ok := tbl.Mutate(3, func(s *Session) { s.Frames = 12 }); !ok {
		t.Fatal("Mutate returned false for present id")
	}
	s, _ := tbl.Lookup(3)
	if s.Frames != 12 {
		t.Errorf("Frames = %d, want 12", s.Frames)
	}

	if ok := tbl.Mutate(99, func(s *Session) {}); ok {
		t.Error("Mutate returned true for absent id")
	}
}

func TestWindowsOnlyActive(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(&Session{ID: 1, State: Pending})
	tbl.Insert(&Session{ID: 2, State: Active, Width: 320, Height: 240})
	tbl.Insert(&Session{ID: 3, State: Active, Width: 640, Height: 480})

	windows := tbl.Windows()
	if len(windows) != 2 {
		t.Fatalf("Windows() returned %d entries, want 2", len(windows))
	}
	for _, w := range windows {
		if w.ID == 1 {
			t.Error("Windows() included a pending session")
		}
		if w.Width == 0 || w.Height == 0 {
			t.Errorf("window %d has zero size", w.ID)
		}
	}
}

func TestViewsSortedByCreation(t *testing.T) {
	base := time.Now()
	tbl := NewTable()
	tbl.Insert(&Session{ID: 2, CreatedAt: base.Add(time.Second)})
	tbl.Insert(&Session{ID: 3, CreatedAt: base.Add(2 * time.Second)})
	tbl.Insert(&Session{ID: 1, CreatedAt: base})

	views := tbl.Views()
	if len(views) != 3 {
		t.Fatalf("Views() returned %d entries, want 3", len(views))
	}
	for i, want := range []uint64{1, 2, 3} {
		if views[i].ID != want {
			t.Errorf("views[%d].ID = %d, want %d", i, views[i].ID, want)
		}
	}
}

func TestViewsTieBreakByID(t *testing.T) {
	same := time.Now()
	tbl := NewTable()
	tbl.Insert(&Session{ID: 8, CreatedAt: same})
	tbl.Insert(&Session{ID: 2, CreatedAt: same})

	views := tbl.Views()
	if views[0].ID != 2 || views[1].ID != 8 {
		t.Errorf("equal timestamps ordered %d,%d, want 2,8", views[0].ID, views[1].ID)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := &Session{ID: 5, State: Active, Frames: 3}
	v := s.Snapshot()
	s.Frames = 10
	if v.Frames != 3 {
		t.Error("Snapshot shares state with the live session")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Pending, "pending"},
		{Active, "active"},
		{Ended, "ended"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
