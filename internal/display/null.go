package display

import "github.com/mosaicview/viewer/internal/media"

// Null is a headless surface with a fixed virtual screen size. Displays
// created on it accept every call and render nothing. Useful for
// running the viewer without a terminal (soak tests, benches) and as
// the -headless back end.
type Null struct {
	width  int
	height int
}

func NewNull(width, height int) *Null {
	return &Null{width: width, height: height}
}

func (n *Null) Create(name string, width, height int) (media.Display, error) {
	return nullDisplay{}, nil
}

func (n *Null) Bounds() (int, int) {
	return n.width, n.height
}

// QuitRequested always reports false; headless runs stop via signal.
func (n *Null) QuitRequested() bool {
	return false
}

type nullDisplay struct{}

func (nullDisplay) Update(*media.Picture) error { return nil }
func (nullDisplay) SetPosition(int, int)        {}
func (nullDisplay) Close()                      {}
