package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termstack/geom"
)

// Terminal implements Backend on a real terminal using tcell.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal creates a terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Fini() {
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Fill(r geom.Rect, cell Cell) {
	style := convertStyle(cell.Style)
	width, height := t.screen.Size()

	for y := r.Y; y < r.MaxY() && y < height; y++ {
		for x := r.X; x < r.MaxX() && x < width; x++ {
			if x >= 0 && y >= 0 {
				t.screen.SetContent(x, y, cell.Rune, nil, style)
			}
		}
	}
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.screen.Show()
}

func (t *Terminal) PollEvent() Event {
	for {
		switch e := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return Event{
				Type: EventKey,
				Key:  convertKey(e.Key()),
				Rune: e.Rune(),
			}
		case *tcell.EventResize:
			w, h := e.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case nil:
			// Screen finalized.
			return Event{Type: EventNone}
		default:
			// Mouse, paste and focus events are outside this library's scope.
			continue
		}
	}
}

func (t *Terminal) PostEvent(ev Event) {
	if ev.Type != EventKey {
		return
	}
	tcellEv := tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, tcell.ModNone)
	_ = t.screen.PostEvent(tcellEv) // best-effort; event queue may be full
}

// convertStyle converts a Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.Default {
		if s.Foreground.Indexed {
			style = style.Foreground(tcell.PaletteColor(int(s.Foreground.R)))
		} else {
			style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
		}
	}
	if !s.Background.Default {
		if s.Background.Indexed {
			style = style.Background(tcell.PaletteColor(int(s.Background.R)))
		} else {
			style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
		}
	}

	if s.Attrs.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Attrs.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Attrs.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attrs.Has(AttrReverse) {
		style = style.Reverse(true)
	}

	return style
}

// convertKey converts a tcell key to the backend Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlC:
		return KeyCtrlC
	default:
		return KeyNone
	}
}

// convertToTcellKey converts a backend Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	case KeyCtrlC:
		return tcell.KeyCtrlC
	default:
		return tcell.KeyRune
	}
}
