package track

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Tracker watches files and counts observed modifications per path.
// Callers record Generation(path) when they validate and compare it
// again before saving; a difference means the file was written in
// between and offsets can no longer be trusted.
type Tracker struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	gens    map[string]uint64
	done    chan struct{}
}

// NewTracker starts a tracker. Close releases the watcher.
func NewTracker() (*Tracker, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "starting file tracker")
	}
	t := &Tracker{watcher: w, gens: map[string]uint64{}, done: make(chan struct{})}
	go t.loop()
	return t, nil
}

// Watch registers path for modification counting.
func (t *Tracker) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving watch path")
	}
	t.mu.Lock()
	if _, ok := t.gens[abs]; !ok {
		t.gens[abs] = 0
	}
	t.mu.Unlock()
	// watch the directory so renames over the file are still seen
	return errors.Wrap(t.watcher.Add(filepath.Dir(abs)), "adding watch")
}

// Generation returns the modification count observed for path since
// Watch. Unwatched paths report zero.
func (t *Tracker) Generation(path string) uint64 {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[abs]
}

// Bump records a modification the tracker performed itself, keeping
// self-inflicted writes distinguishable from none at all.
func (t *Tracker) Bump(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	t.mu.Lock()
	t.gens[abs]++
	t.mu.Unlock()
}

// Close stops the tracker.
func (t *Tracker) Close() error {
	close(t.done)
	return t.watcher.Close()
}

func (t *Tracker) loop() {
	for {
		select {
		case <-t.done:
			return
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			t.mu.Lock()
			if _, tracked := t.gens[abs]; tracked {
				t.gens[abs]++
			}
			t.mu.Unlock()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			glog.V(1).Infof("tracker watch error: %v", err)
		}
	}
}
