// Package layout computes window positions for the set of currently
// visible session windows. Arrangement is a pure function of its inputs:
// windows are lined up in a single centered row in creation order, so the
// same sessions always land in the same places regardless of map
// iteration order or event timing.
package layout

import (
	"sort"
	"time"
)

// Window describes one visible session window: its id, intrinsic pixel
// size, and creation time. Creation time orders the row left to right;
// ids break ties so the order is total.
type Window struct {
	ID        uint64
	Width     int
	Height    int
	CreatedAt time.Time
}

// Placement is the computed top-left corner for one window.
type Placement struct {
	ID uint64
	X  int
	Y  int
}

// Arrange positions windows in a single row centered on a screen of the
// given size, with padding pixels between neighbors. Each window is also
// centered vertically. The row may be wider than the screen, in which
// case the starting X goes negative and windows extend past the edges;
// clamping is deliberately not done.
//
// The input slice is not modified. Arrange recomputes every position
// from scratch on each call; with tens of windows at most there is
// nothing worth doing incrementally.
func Arrange(windows []Window, screenWidth, screenHeight, padding int) []Placement {
	if len(windows) == 0 {
		return nil
	}

	ordered := make([]Window, len(windows))
	copy(ordered, windows)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	total := padding * (len(ordered) - 1)
	for _, w := range ordered {
		total += w.Width
	}

	x := (screenWidth - total) / 2
	placements := make([]Placement, 0, len(ordered))
	for _, w := range ordered {
		placements = append(placements, Placement{
			ID: w.ID,
			X:  x,
			Y:  (screenHeight - w.Height) / 2,
		})
		x += w.Width + padding
	}
	return placements
}
