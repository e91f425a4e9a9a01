package media

// Picture is one decoded video frame. Planes holds the raw plane data
// (a single luma plane for grayscale sources, three planes for planar
// YUV); Strides holds the per-plane row pitch in bytes.
type Picture struct {
	Width   int
	Height  int
	Planes  [][]byte
	Strides []int
}

// Gray returns the luma value at (x, y), or 0 when the coordinate is
// outside the picture. Display back ends use this for downsampling.
func (p *Picture) Gray(x, y int) byte {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height || len(p.Planes) == 0 {
		return 0
	}
	idx := y*p.Strides[0] + x
	if idx >= len(p.Planes[0]) {
		return 0
	}
	return p.Planes[0][idx]
}

// Decoder turns encoded access-unit payloads into pictures. One instance
// per session, created when the session is accepted and closed exactly
// once when it ends.
//
// Implementations are called from a single goroutine (the coordinator
// loop) and do not need to be safe for concurrent use.
type Decoder interface {
	// Feed decodes one access unit. A decode error is terminal for the
	// session that owns this decoder; the caller tears the session down.
	Feed(data []byte) (*Picture, error)

	// Close releases the decoder. Called exactly once.
	Close()
}

// Display is one on-screen window showing a single session's pictures.
// Created lazily with the first decoded picture's intrinsic size; that
// size is fixed for the display's lifetime.
type Display interface {
	// Update pushes a new decoded picture to the window.
	Update(pic *Picture) error

	// SetPosition moves the window's top-left corner to (x, y) in
	// screen pixel coordinates. Coordinates may be negative when the
	// arranged row is wider than the screen.
	SetPosition(x, y int)

	// Close hides the window and releases its resources. Called exactly
	// once, when the owning session ends.
	Close()
}

// Surface is the render back end the coordinator creates windows on.
type Surface interface {
	// Create opens a new window sized to a picture's intrinsic
	// dimensions. A creation failure is not fatal; the caller may retry
	// with a later picture.
	Create(name string, width, height int) (Display, error)

	// Bounds returns the screen size in pixels, used as the layout
	// container.
	Bounds() (width, height int)
}

// Input is the UI event source the coordinator polls once per tick.
type Input interface {
	// QuitRequested reports whether the user asked to quit. It never
	// blocks.
	QuitRequested() bool
}
