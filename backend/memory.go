package backend

import (
	"strings"

	"github.com/dshills/termstack/geom"
)

// Memory is an in-memory Backend for tests and headless use. It keeps a
// single cell grid, counts Show calls, and delivers events from a buffered
// queue so tests can script input and resize sequences.
type Memory struct {
	width, height int
	cells         [][]Cell
	events        chan Event
	showCount     int
}

// NewMemory creates an in-memory backend with the given dimensions.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 64)}
	m.allocate(width, height)
	return m
}

// allocate creates the cell grid.
func (m *Memory) allocate(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	m.cells = make([][]Cell, height)
	for y := 0; y < height; y++ {
		m.cells[y] = make([]Cell, width)
		for x := 0; x < width; x++ {
			m.cells[y][x] = EmptyCell()
		}
	}
}

func (m *Memory) Init() error { return nil }

func (m *Memory) Fini() {}

func (m *Memory) Size() (int, int) {
	return m.width, m.height
}

func (m *Memory) SetCell(x, y int, cell Cell) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.cells[y][x] = cell
}

func (m *Memory) Fill(r geom.Rect, cell Cell) {
	for y := r.Y; y < r.MaxY() && y < m.height; y++ {
		for x := r.X; x < r.MaxX() && x < m.width; x++ {
			if x >= 0 && y >= 0 {
				m.cells[y][x] = cell
			}
		}
	}
}

func (m *Memory) Clear() {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.cells[y][x] = EmptyCell()
		}
	}
}

func (m *Memory) Show() {
	m.showCount++
}

func (m *Memory) PollEvent() Event {
	return <-m.events
}

func (m *Memory) PostEvent(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Resize changes the grid dimensions and queues the matching resize event,
// mirroring what a real terminal delivers.
func (m *Memory) Resize(width, height int) {
	m.allocate(width, height)
	m.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// CellAt returns the cell at the given position, or an empty cell when out
// of bounds.
func (m *Memory) CellAt(x, y int) Cell {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return EmptyCell()
	}
	return m.cells[y][x]
}

// Row returns the runes of a row as a string, for test assertions.
func (m *Memory) Row(y int) string {
	if y < 0 || y >= m.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < m.width; x++ {
		sb.WriteRune(m.cells[y][x].Rune)
	}
	return sb.String()
}

// ShowCount returns how many times Show has been called.
func (m *Memory) ShowCount() int {
	return m.showCount
}
