package backend

import "github.com/dshills/termstack/geom"

// Window is a rect-bounded drawing region on a Backend. Surfaces draw through
// a Window using window-local coordinates; everything outside the bounds is
// clipped. A Window's bounds are the region source for surface positioning.
type Window struct {
	b      Backend
	bounds geom.Rect
}

// NewWindow creates a window covering the given screen rectangle.
func NewWindow(b Backend, bounds geom.Rect) *Window {
	return &Window{b: b, bounds: bounds}
}

// Bounds returns the window's screen rectangle. A nil window has zero bounds,
// so positioning a surface from a window that was never created disables
// drawing for that surface.
func (w *Window) Bounds() geom.Rect {
	if w == nil {
		return geom.Rect{}
	}
	return w.bounds
}

// SetCell writes a cell at window-local coordinates, clipped to the bounds.
func (w *Window) SetCell(x, y int, cell Cell) {
	if w == nil {
		return
	}
	if x < 0 || x >= w.bounds.W || y < 0 || y >= w.bounds.H {
		return
	}
	w.b.SetCell(w.bounds.X+x, w.bounds.Y+y, cell)
}

// SetString writes a string starting at window-local coordinates, clipped to
// the right edge.
func (w *Window) SetString(x, y int, s string, style Style) {
	if w == nil || y < 0 || y >= w.bounds.H {
		return
	}
	col := x
	for _, r := range s {
		if col >= w.bounds.W {
			break
		}
		if col >= 0 {
			w.b.SetCell(w.bounds.X+col, w.bounds.Y+y, Cell{Rune: r, Style: style})
		}
		col++
	}
}

// Fill fills the entire window with the given cell.
func (w *Window) Fill(cell Cell) {
	if w == nil {
		return
	}
	w.b.Fill(w.bounds, cell)
}

// Clear blanks the window.
func (w *Window) Clear() {
	w.Fill(EmptyCell())
}

// Box draws a single-line border along the window's inner edge.
func (w *Window) Box(style Style) {
	if w == nil || w.bounds.W < 2 || w.bounds.H < 2 {
		return
	}
	right := w.bounds.W - 1
	bottom := w.bounds.H - 1

	for x := 1; x < right; x++ {
		w.SetCell(x, 0, Cell{Rune: '─', Style: style})
		w.SetCell(x, bottom, Cell{Rune: '─', Style: style})
	}
	for y := 1; y < bottom; y++ {
		w.SetCell(0, y, Cell{Rune: '│', Style: style})
		w.SetCell(right, y, Cell{Rune: '│', Style: style})
	}
	w.SetCell(0, 0, Cell{Rune: '┌', Style: style})
	w.SetCell(right, 0, Cell{Rune: '┐', Style: style})
	w.SetCell(0, bottom, Cell{Rune: '└', Style: style})
	w.SetCell(right, bottom, Cell{Rune: '┘', Style: style})
}
