package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of chart file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // chart .toml edited or created
	ChangeRemoved                    // chart .toml deleted
)

// ChartChange represents a detected change in the charts directory.
type ChartChange struct {
	Kind ChangeKind
	File string // absolute path
}

// Watcher monitors a charts directory for .toml changes using fsnotify.
// Rapid successive events on the same file (editor save patterns) are
// coalesced through a debounce window.
type Watcher struct {
	Dir     string
	Changes <-chan ChartChange // read-only external channel

	debounce time.Duration
	changes  chan ChartChange // internal write channel
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given charts directory. A
// non-positive debounce falls back to 100ms.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	ch := make(chan ChartChange, 16)
	w := &Watcher{
		Dir:      dir,
		Changes:  ch,
		debounce: debounce,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	return w, nil
}

// Start begins watching the charts directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event per file, flush on tick.
	pending := make(map[string]fsnotify.Event)
	lastSeen := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Drain pending on close.
				for _, ev := range pending {
					w.emitChange(ev)
				}
				return
			}

			if !isChartFile(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = event
				lastSeen[event.Name] = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			now := time.Now()
			for file, t := range lastSeen {
				if now.Sub(t) >= w.debounce {
					w.emitChange(pending[file])
					delete(pending, file)
					delete(lastSeen, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func isChartFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".toml")
}

func (w *Watcher) emitChange(ev fsnotify.Event) {
	kind := ChangeModified
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		kind = ChangeRemoved
	}
	w.changes <- ChartChange{Kind: kind, File: ev.Name}
}
