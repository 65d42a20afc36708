package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the bursts of write events editors produce when
// saving a file.
const debounceDelay = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes and delivers the new
// snapshots over a channel. Consumers apply snapshots between dispatch
// cycles; the watcher never touches the surface manager itself.
type Watcher struct {
	mu sync.Mutex

	fsw  *fsnotify.Watcher
	path string

	updates chan Config
	errs    chan error

	closeCh chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// Watch starts watching the given configuration file. The parent directory
// is watched so atomic-rename saves are seen too.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    path,
		updates: make(chan Config, 1),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Updates returns the channel of reloaded configurations.
func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

// Errors returns the channel of reload errors. Reload errors are delivered
// here and the previous configuration stays in effect.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop consumes fsnotify events, debounces them and reloads the file.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			cfg, err := Load(w.path)
			if err != nil {
				w.send(w.errs, err)
				continue
			}
			w.sendConfig(cfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(w.errs, err)
		}
	}
}

// sendConfig delivers a snapshot, replacing an unconsumed older one.
func (w *Watcher) sendConfig(cfg Config) {
	for {
		select {
		case w.updates <- cfg:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

// send delivers an error without blocking.
func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
