package service

import (
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/andaru/largexml/config"
	"github.com/andaru/largexml/patch"
	"github.com/andaru/largexml/rewrite"
	"github.com/andaru/largexml/scan"
	"github.com/andaru/largexml/track"
	"github.com/andaru/largexml/validate"
	"github.com/andaru/largexml/zone"
)

// Service executes engine operations for an editor integration.
type Service struct {
	cfg          config.Config
	orchestrator *validate.Orchestrator
	extractor    *zone.Extractor
	saver        *rewrite.Saver
	patcher      *rewrite.Patcher
	store        *patch.Store
	tracker      *track.Tracker

	mu       sync.Mutex
	managers map[string]*patch.Manager
	stamps   map[string]track.Stamp
	gens     map[string]uint64
}

// New wires a Service from configuration. With a state directory
// configured, pending patch sets persist across restarts. A tracker is
// optional; without one, stale saves are detected by stamp only.
func New(cfg config.Config, opts ...Option) (*Service, error) {
	s := &Service{
		cfg: cfg,
		orchestrator: validate.New(
			validate.WithScanner(scan.New(scan.WithBufferSize(cfg.Scan.BufferSize)))),
		extractor: zone.New(zone.WithContextLines(cfg.Zone.ContextLines)),
		managers:  map[string]*patch.Manager{},
		stamps:    map[string]track.Stamp{},
		gens:      map[string]uint64{},
	}

	saverOpts := []rewrite.SaverOption{}
	patcherOpts := []rewrite.PatcherOption{}
	if !cfg.Save.Backup {
		saverOpts = append(saverOpts, rewrite.WithoutBackup())
		patcherOpts = append(patcherOpts, rewrite.WithoutPatchBackup())
	}
	if cfg.Patch.StrictCheck {
		patcherOpts = append(patcherOpts, rewrite.WithChecker(rewrite.StrictParse{}))
	}
	s.saver = rewrite.NewSaver(saverOpts...)
	s.patcher = rewrite.NewPatcher(patcherOpts...)

	if cfg.Patch.StateDir != "" {
		store, err := patch.OpenStore(cfg.Patch.StateDir)
		if err != nil {
			return nil, errors.Wrap(err, "opening patch store")
		}
		s.store = store
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Option configures a Service.
type Option func(*Service)

// WithTracker attaches a change tracker for stale-save detection.
func WithTracker(t *track.Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

// Close releases the tracker, if any.
func (s *Service) Close() error {
	if s.tracker != nil {
		return s.tracker.Close()
	}
	return nil
}

// manager returns (creating if needed) the patch manager for path.
func (s *Service) manager(path string) (*patch.Manager, error) {
	key := canonical(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.managers[key]; ok {
		return m, nil
	}
	m, err := patch.NewManager(key, s.store)
	if err != nil {
		return nil, err
	}
	s.managers[key] = m
	return m, nil
}

// rememberValidation records the file identity observed by a
// validation run, for comparison at save time.
func (s *Service) rememberValidation(path string, stamp track.Stamp) {
	key := canonical(path)
	s.mu.Lock()
	s.stamps[key] = stamp
	s.mu.Unlock()
	if s.tracker != nil {
		if err := s.tracker.Watch(key); err != nil {
			glog.V(1).Infof("cannot watch %s: %v", key, err)
			return
		}
		gen := s.tracker.Generation(key)
		s.mu.Lock()
		s.gens[key] = gen
		s.mu.Unlock()
	}
}

// stale reports whether path changed since its last validation. A
// file never validated has no recorded identity and is not stale.
func (s *Service) stale(path string) bool {
	key := canonical(path)
	s.mu.Lock()
	stamp, stamped := s.stamps[key]
	gen, watched := s.gens[key]
	s.mu.Unlock()

	if stamped && !stamp.Matches(key) {
		return true
	}
	if watched && s.tracker != nil && s.tracker.Generation(key) != gen {
		return true
	}
	return false
}

// noteSelfWrite refreshes the recorded identity after the service
// itself rewrote the file, so its own save is not seen as stale.
func (s *Service) noteSelfWrite(path string) {
	key := canonical(path)
	stamp, err := track.StampPath(key)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.stamps[key] = stamp
	s.mu.Unlock()
	if s.tracker != nil {
		// the write raced the watcher; re-read the counter once the
		// stamp is fresh
		gen := s.tracker.Generation(key)
		s.mu.Lock()
		s.gens[key] = gen
		s.mu.Unlock()
	}
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
