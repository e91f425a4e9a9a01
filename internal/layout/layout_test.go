package layout

import (
	"reflect"
	"testing"
	"time"
)

func TestArrangeCentersRow(t *testing.T) {
	base := time.Now()
	windows := []Window{
		{ID: 1, Width: 100, Height: 100, CreatedAt: base},
		{ID: 2, Width: 200, Height: 100, CreatedAt: base.Add(time.Second)},
		{ID: 3, Width: 150, Height: 100, CreatedAt: base.Add(2 * time.Second)},
	}

	// total = 100+200+150 + 2*20 = 490; startX = (1000-490)/2 = 255.
	got := Arrange(windows, 1000, 800, 20)
	want := []Placement{
		{ID: 1, X: 255, Y: 350},
		{ID: 2, X: 375, Y: 350},
		{ID: 3, X: 595, Y: 350},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Arrange = %v, want %v", got, want)
	}
}

func TestArrangeOrdersByCreationNotInput(t *testing.T) {
	base := time.Now()
	windows := []Window{
		{ID: 3, Width: 150, Height: 100, CreatedAt: base.Add(2 * time.Second)},
		{ID: 1, Width: 100, Height: 100, CreatedAt: base},
		{ID: 2, Width: 200, Height: 100, CreatedAt: base.Add(time.Second)},
	}

	got := Arrange(windows, 1000, 800, 20)
	if got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("Arrange order = %d,%d,%d, want 1,2,3", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestArrangeTieBreaksByID(t *testing.T) {
	same := time.Now()
	windows := []Window{
		{ID: 9, Width: 50, Height: 50, CreatedAt: same},
		{ID: 4, Width: 50, Height: 50, CreatedAt: same},
	}

	got := Arrange(windows, 400, 400, 10)
	if got[0].ID != 4 || got[1].ID != 9 {
		t.Errorf("equal timestamps ordered %d,%d, want 4,9", got[0].ID, got[1].ID)
	}
}

func TestArrangeIsPure(t *testing.T) {
	base := time.Now()
	windows := []Window{
		{ID: 2, Width: 80, Height: 60, CreatedAt: base.Add(time.Minute)},
		{ID: 1, Width: 120, Height: 90, CreatedAt: base},
	}
	input := make([]Window, len(windows))
	copy(input, windows)

	first := Arrange(windows, 640, 480, 16)
	second := Arrange(windows, 640, 480, 16)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different placements")
	}
	if !reflect.DeepEqual(windows, input) {
		t.Error("Arrange mutated its input slice")
	}
}

func TestArrangeSingleWindow(t *testing.T) {
	got := Arrange([]Window{{ID: 1, Width: 400, Height: 300}}, 1000, 800, 20)
	want := []Placement{{ID: 1, X: 300, Y: 250}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Arrange = %v, want %v", got, want)
	}
}

func TestArrangeEmpty(t *testing.T) {
	if got := Arrange(nil, 1000, 800, 20); got != nil {
		t.Errorf("Arrange(nil) = %v, want nil", got)
	}
}

func TestArrangeWiderThanScreen(t *testing.T) {
	base := time.Now()
	windows := []Window{
		{ID: 1, Width: 800, Height: 600, CreatedAt: base},
		{ID: 2, Width: 800, Height: 600, CreatedAt: base.Add(time.Second)},
	}

	// total = 1620, startX = (1000-1620)/2 = -310; no clamping.
	got := Arrange(windows, 1000, 800, 20)
	if got[0].X != -310 {
		t.Errorf("startX = %d, want -310", got[0].X)
	}
	if got[1].X != 510 {
		t.Errorf("second X = %d, want 510", got[1].X)
	}
}
