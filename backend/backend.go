// Package backend provides the console backend abstraction the surface
// manager draws through: an interface over a physical terminal, an in-memory
// implementation for tests and headless use, and rect-bounded windows.
package backend

import "github.com/dshills/termstack/geom"

// Attr represents text attributes (bold, reverse, etc.).
type Attr uint8

// Text attribute flags.
const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << iota
	AttrDim            // Faint/dim text
	AttrUnderline      // Underlined text
	AttrReverse        // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// Color represents a terminal color: the default color, a palette index,
// or a true color.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	Indexed bool
	// Default indicates the terminal's default color.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
}

// Cell is one screen cell: a rune plus its style.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune

	// Resize event fields
	Width, Height int
}

// Backend abstracts the physical console. The surface manager's redraw
// callbacks draw through it (usually via a Window); the input loop reads
// events from it and performs the buffer flip with Show.
type Backend interface {
	// Init prepares the backend for use.
	Init() error

	// Fini releases the backend and restores the terminal.
	Fini()

	// Size returns the current screen dimensions in cells.
	Size() (width, height int)

	// SetCell writes a cell at absolute screen coordinates.
	// Writes outside the screen are ignored.
	SetCell(x, y int, cell Cell)

	// Fill fills a screen rectangle with the given cell, clipped to the screen.
	Fill(r geom.Rect, cell Cell)

	// Clear blanks the whole screen buffer.
	Clear()

	// Show flips the off-screen buffer to the display.
	Show()

	// PollEvent blocks until the next terminal event.
	PollEvent() Event

	// PostEvent injects an event into the queue. Best-effort.
	PostEvent(ev Event)
}
