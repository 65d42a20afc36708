// Package main is a small interactive demo of the surface stack: a
// background pane, a status line, a movable dialog, and blocking diagnostic
// messages, with live configuration reload.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/termstack/backend"
	"github.com/dshills/termstack/config"
	"github.com/dshills/termstack/geom"
	"github.com/dshills/termstack/logging"
	"github.com/dshills/termstack/pane"
	"github.com/dshills/termstack/surface"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Fini()

	// Contract violations are recorded here and surfaced as a blocking
	// pane between dispatch cycles. Pushing a pane from inside the
	// violation handler would itself violate the dispatch contract when
	// the violation happened mid-dispatch.
	var violation error
	m := surface.NewManager(
		surface.WithLogger(log),
		surface.WithMaxInvalidRects(cfg.Invalidation.MaxRects),
		surface.WithViolationHandler(func(err error) {
			log.Error("contract violation: %v", err)
			violation = err
		}),
	)

	var watcher *config.Watcher
	if opts.configPath != "" {
		watcher, err = config.Watch(opts.configPath)
		if err != nil {
			log.Warn("config watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	log.Info("starting demo %s (%s)", version, commit)
	return eventLoop(m, term, log, cfg, &violation, watcher)
}

type options struct {
	configPath string
	logLevel   string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "termstack-demo - interactive surface stack demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termstack-demo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  d    toggle a dialog surface\n")
		fmt.Fprintf(os.Stderr, "  m    show a blocking message\n")
		fmt.Fprintf(os.Stderr, "  q    quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("termstack-demo %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}

// demoState holds the surfaces the event loop toggles.
type demoState struct {
	bg      *pane.Background
	status  *surface.Handle
	dialog  *surface.Handle
	message *pane.Message
	keys    int
}

func eventLoop(m *surface.Manager, term backend.Backend, log *logging.Logger, cfg config.Config, violation *error, watcher *config.Watcher) int {
	st := &demoState{}

	st.bg = pane.NewBackground(m, term)
	defer st.bg.Close()

	st.status = newStatusLine(m, term, st)
	defer st.status.Close()

	for {
		if *violation != nil && cfg.Diagnostics.Overlay {
			// The previous message, if any, is on top of the stack and
			// must come off before a new one goes on.
			if st.message != nil {
				st.message.Close()
			}
			st.message = pane.NewMessage(m, term, fmt.Sprintf("contract violation: %v", *violation))
			*violation = nil
		}

		m.Redraw()
		term.Show()

		ev := term.PollEvent()
		switch ev.Type {
		case backend.EventResize:
			m.ScreenResized()

		case backend.EventKey:
			if done := handleKey(m, term, log, st, ev); done {
				return 0
			}

		case backend.EventNone:
			// Backend closed.
			return 0
		}

		// Reloads are drained between events; a new snapshot takes effect
		// after the next input or resize event.
		if watcher != nil {
			select {
			case next := <-watcher.Updates():
				cfg = next
				log.SetLevel(logging.ParseLevel(cfg.Log.Level))
				log.Info("configuration reloaded")
			case err := <-watcher.Errors():
				log.Warn("config reload failed: %v", err)
			default:
			}
		}
	}
}

// handleKey reacts to one key event. Returns true when the demo should quit.
func handleKey(m *surface.Manager, term backend.Backend, log *logging.Logger, st *demoState, ev backend.Event) bool {
	st.keys++
	st.status.Invalidate()

	// A blocking message swallows all input until dismissed.
	if st.message != nil {
		st.message.Close()
		st.message = nil
		return false
	}

	switch {
	case ev.Key == backend.KeyCtrlC || ev.Key == backend.KeyEscape:
		return true
	case ev.Key == backend.KeyRune && ev.Rune == 'q':
		return true

	case ev.Key == backend.KeyRune && ev.Rune == 'd':
		if st.dialog == nil {
			st.dialog = newDialog(m, term)
			log.Debug("dialog opened")
		} else {
			st.dialog.Close()
			st.dialog = nil
			log.Debug("dialog closed")
		}

	case ev.Key == backend.KeyRune && ev.Rune == 'm':
		st.message = pane.Debugmsg(m, term, "keys pressed so far: %d", st.keys)
	}
	return false
}

// newStatusLine creates a one-row surface along the bottom of the screen.
func newStatusLine(m *surface.Manager, term backend.Backend, st *demoState) *surface.Handle {
	h := surface.New(m)
	style := backend.Style{
		Foreground: backend.ColorFromRGB(0, 0, 0),
		Background: backend.ColorFromRGB(180, 180, 180),
	}
	var win *backend.Window
	h.OnResize(func(h *surface.Handle) {
		w, height := term.Size()
		win = backend.NewWindow(term, geom.Rect{Y: height - 1, W: w, H: 1})
		h.PositionFromWindow(win)
	})
	h.OnRedraw(func(h *surface.Handle) {
		win.Fill(backend.Cell{Rune: ' ', Style: style})
		win.SetString(1, 0, fmt.Sprintf("q quit | d dialog | m message | keys: %d", st.keys), style)
	})
	h.MarkResize()
	return h
}

// newDialog creates a bordered box in the upper-left quadrant.
func newDialog(m *surface.Manager, term backend.Backend) *surface.Handle {
	h := surface.New(m)
	style := backend.Style{
		Foreground: backend.ColorFromRGB(255, 255, 255),
		Background: backend.ColorFromRGB(0, 0, 128),
	}
	var win *backend.Window
	h.OnResize(func(h *surface.Handle) {
		w, height := term.Size()
		win = backend.NewWindow(term, geom.Rect{X: 2, Y: 1, W: w/2 - 2, H: height/2 - 1})
		h.PositionFromWindow(win)
	})
	h.OnRedraw(func(h *surface.Handle) {
		win.Fill(backend.Cell{Rune: ' ', Style: style})
		win.Box(style)
		win.SetString(2, 1, "dialog - press d to close", style)
	})
	h.MarkResize()
	return h
}

// newLogger builds the logger from config. An empty log file disables
// output entirely; a terminal application cannot log to its own screen.
func newLogger(cfg config.LogConfig) (*logging.Logger, func(), error) {
	if cfg.File == "" {
		return logging.Null, func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Level),
		Output: f,
		Prefix: "termstack-demo",
	})
	return log, func() { f.Close() }, nil
}
