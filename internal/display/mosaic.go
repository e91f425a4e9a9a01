// Package display provides the render back ends the coordinator creates
// session windows on: a tcell terminal mosaic and a headless null
// surface. Both satisfy media.Surface and media.Input.
package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/mosaicview/viewer/internal/media"
)

// Pixels per terminal cell. Cells are roughly twice as tall as they are
// wide, so the horizontal scale is half the vertical one; the mosaic
// maps the pixel-space layout onto the cell grid with these factors and
// reports a pixel-space Bounds computed from the same factors, keeping
// the two spaces consistent.
const (
	cellScaleX = 8
	cellScaleY = 16
)

// minTileCells keeps tiny streams legible: every tile is at least this
// many cells in each direction, borders included.
const minTileCells = 4

// lumaRamp maps ascending luma to denser glyphs.
const lumaRamp = " .:-=+*#%@"

// Mosaic renders each session as a bordered tile on one shared terminal
// screen, the decoded luma plane downsampled to characters. It also
// serves as the coordinator's quit-intent source: Esc, q, or Ctrl-C
// request exit.
type Mosaic struct {
	screen tcell.Screen

	quitOnce sync.Once
	quit     chan struct{}

	mu    sync.Mutex
	tiles map[*tile]struct{}
}

// NewMosaic initializes the terminal screen. Failure here is a
// configuration-time error and aborts startup.
func NewMosaic() (*Mosaic, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.Clear()
	screen.Show()

	m := &Mosaic{
		screen: screen,
		quit:   make(chan struct{}),
		tiles:  make(map[*tile]struct{}),
	}
	go m.eventLoop()
	return m, nil
}

// Create opens a tile sized for a width x height pixel picture.
func (m *Mosaic) Create(name string, width, height int) (media.Display, error) {
	t := &tile{
		m:     m,
		name:  name,
		cellW: max(minTileCells, width/cellScaleX),
		cellH: max(minTileCells, height/cellScaleY),
	}
	m.mu.Lock()
	m.tiles[t] = struct{}{}
	m.mu.Unlock()
	return t, nil
}

// Bounds reports the terminal size in pixel space.
func (m *Mosaic) Bounds() (int, int) {
	w, h := m.screen.Size()
	return w * cellScaleX, h * cellScaleY
}

// QuitRequested reports whether the user asked to exit. Never blocks.
func (m *Mosaic) QuitRequested() bool {
	select {
	case <-m.quit:
		return true
	default:
		return false
	}
}

// Fini restores the terminal. Call once on shutdown.
func (m *Mosaic) Fini() {
	m.screen.Fini()
}

func (m *Mosaic) eventLoop() {
	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(ev) {
				m.quitOnce.Do(func() { close(m.quit) })
			}
		case *tcell.EventResize:
			m.screen.Sync()
			m.redrawAll()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// redrawAll repaints every tile from scratch. Used whenever a tile
// moves or disappears, since tiles share one screen.
func (m *Mosaic) redrawAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redrawAllLocked()
}

// redrawAllLocked is redrawAll for callers already holding m.mu.
func (m *Mosaic) redrawAllLocked() {
	m.screen.Clear()
	for t := range m.tiles {
		t.draw(m.screen)
	}
	m.screen.Show()
}

func (m *Mosaic) removeTile(t *tile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tiles, t)
	m.redrawAllLocked()
}

// tile is one session window on the mosaic. Position and size are in
// cells; SetPosition translates from the layout's pixel space. The
// mosaic lock guards every field the event-loop goroutine reads through
// draw, so mutations happen under it.
type tile struct {
	m     *Mosaic
	name  string
	cellW int
	cellH int
	cellX int
	cellY int
	pic   *media.Picture
}

func (t *tile) Update(pic *media.Picture) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.pic = pic
	t.draw(t.m.screen)
	t.m.screen.Show()
	return nil
}

func (t *tile) SetPosition(x, y int) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.cellX = x / cellScaleX
	t.cellY = y / cellScaleY
	t.m.redrawAllLocked()
}

func (t *tile) Close() {
	t.m.removeTile(t)
}

// draw paints the tile's border, title, and downsampled picture. Caller
// holds the mosaic lock.
func (t *tile) draw(screen tcell.Screen) {
	style := tcell.StyleDefault
	right := t.cellX + t.cellW - 1
	bottom := t.cellY + t.cellH - 1

	for x := t.cellX + 1; x < right; x++ {
		screen.SetContent(x, t.cellY, tcell.RuneHLine, nil, style)
		screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := t.cellY + 1; y < bottom; y++ {
		screen.SetContent(t.cellX, y, tcell.RuneVLine, nil, style)
		screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	screen.SetContent(t.cellX, t.cellY, tcell.RuneULCorner, nil, style)
	screen.SetContent(right, t.cellY, tcell.RuneURCorner, nil, style)
	screen.SetContent(t.cellX, bottom, tcell.RuneLLCorner, nil, style)
	screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)

	title := []rune(t.name)
	for i := 0; i < len(title) && t.cellX+1+i < right; i++ {
		screen.SetContent(t.cellX+1+i, t.cellY, title[i], nil, style)
	}

	if t.pic == nil {
		return
	}
	innerW := t.cellW - 2
	innerH := t.cellH - 2
	for cy := 0; cy < innerH; cy++ {
		for cx := 0; cx < innerW; cx++ {
			px := (cx*2 + 1) * t.pic.Width / (innerW * 2)
			py := (cy*2 + 1) * t.pic.Height / (innerH * 2)
			r := lumaToRune(t.pic.Gray(px, py))
			screen.SetContent(t.cellX+1+cx, t.cellY+1+cy, r, nil, style)
		}
	}
}

func lumaToRune(v byte) rune {
	ramp := []rune(lumaRamp)
	idx := int(v) * len(ramp) / 256
	return ramp[idx]
}
