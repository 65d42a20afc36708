// Package pane provides ready-made surfaces built on the surface manager:
// a screen-filling background and a blocking message overlay used for
// diagnostics.
package pane

import (
	"fmt"
	"strings"

	"github.com/dshills/termstack/backend"
	"github.com/dshills/termstack/geom"
	"github.com/dshills/termstack/surface"
)

// Background fills the whole screen and obscures every surface below it.
// It stays on the stack until closed, giving the surfaces above it a clean
// canvas. Because it covers the screen, anything beneath it is occluded out
// of redraw work by containment alone.
type Background struct {
	h    *surface.Handle
	b    backend.Backend
	win  *backend.Window
	fill backend.Cell
}

// NewBackground creates a background pane on top of the stack.
func NewBackground(m *surface.Manager, b backend.Backend) *Background {
	bg := &Background{
		h:    surface.New(m),
		b:    b,
		fill: backend.EmptyCell(),
	}
	bg.h.OnResize(func(h *surface.Handle) {
		w, ht := bg.b.Size()
		bg.win = backend.NewWindow(bg.b, geom.Rect{W: w, H: ht})
		h.PositionFromWindow(bg.win)
	})
	bg.h.OnRedraw(func(h *surface.Handle) {
		bg.win.Fill(bg.fill)
	})
	bg.h.MarkResize()
	return bg
}

// SetFill changes the fill cell and schedules a repaint.
func (bg *Background) SetFill(cell backend.Cell) {
	bg.fill = cell
	bg.h.Invalidate()
}

// Handle returns the underlying surface handle.
func (bg *Background) Handle() *surface.Handle {
	return bg.h
}

// Close removes the background from the stack.
func (bg *Background) Close() {
	bg.h.Close()
}

// Message is a transient overlay that blocks every surface below it, used
// for error and debug messages. It centers itself on the screen and resizes
// with it.
type Message struct {
	h     *surface.Handle
	b     backend.Backend
	win   *backend.Window
	text  string
	style backend.Style
}

// messageMaxWidth bounds the message box width in cells, borders included.
const messageMaxWidth = 60

// NewMessage creates a blocking message pane on top of the stack. The text
// is word-wrapped into a centered box.
func NewMessage(m *surface.Manager, b backend.Backend, text string) *Message {
	msg := &Message{
		h:    surface.NewBlocking(m),
		b:    b,
		text: text,
		style: backend.Style{
			Foreground: backend.ColorFromRGB(255, 255, 255),
			Background: backend.ColorFromRGB(128, 0, 0),
		},
	}
	msg.h.OnResize(func(h *surface.Handle) {
		msg.win = backend.NewWindow(msg.b, msg.layout())
		h.PositionFromWindow(msg.win)
	})
	msg.h.OnRedraw(func(h *surface.Handle) {
		msg.draw()
	})
	msg.h.MarkResize()
	return msg
}

// Debugmsg shows a formatted message as a blocking pane and forces an
// immediate redraw. Must be called between dispatch cycles, never from
// inside a redraw or resize callback.
func Debugmsg(m *surface.Manager, b backend.Backend, format string, args ...any) *Message {
	msg := NewMessage(m, b, fmt.Sprintf(format, args...))
	m.Redraw()
	b.Show()
	return msg
}

// Handle returns the underlying surface handle.
func (msg *Message) Handle() *surface.Handle {
	return msg.h
}

// Text returns the message text.
func (msg *Message) Text() string {
	return msg.text
}

// Close removes the message, re-enabling the surfaces below it.
func (msg *Message) Close() {
	msg.h.Close()
}

// layout computes the centered box rectangle for the current screen size.
func (msg *Message) layout() geom.Rect {
	sw, sh := msg.b.Size()
	if sw < 4 || sh < 3 {
		return geom.Rect{}
	}

	width := messageMaxWidth
	if width > sw {
		width = sw
	}
	lines := wrap(msg.text, width-4)

	// Shrink the box to the longest line when the text is short.
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	if longest+4 < width {
		width = longest + 4
	}

	height := len(lines) + 2
	if height > sh {
		height = sh
	}

	return geom.Rect{
		X: (sw - width) / 2,
		Y: (sh - height) / 2,
		W: width,
		H: height,
	}
}

// draw paints the box border and the wrapped text.
func (msg *Message) draw() {
	bounds := msg.win.Bounds()
	if bounds.Empty() {
		return
	}
	msg.win.Fill(backend.Cell{Rune: ' ', Style: msg.style})
	msg.win.Box(msg.style)

	lines := wrap(msg.text, bounds.W-4)
	for i, line := range lines {
		if i+1 >= bounds.H-1 {
			break
		}
		msg.win.SetString(2, i+1, line, msg.style)
	}
}

// wrap word-wraps text to the given width. Words longer than the width are
// split mid-word.
func wrap(text string, width int) []string {
	if width < 1 {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			for len([]rune(word)) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				runes := []rune(word)
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
