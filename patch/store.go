package patch

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// storeSchemaVersion invalidates persisted sets when the payload
// format changes.
const storeSchemaVersion uint16 = 1

// Store persists per-file patch sets under a directory, one msgpack
// file per target path. Writes go through a temp file and rename so a
// crash mid-write never leaves a torn set behind.
type Store struct {
	mu  sync.RWMutex
	dir string
}

type storePayload struct {
	Schema  uint16  `msgpack:"schema"`
	Target  string  `msgpack:"target"`
	Patches []Patch `msgpack:"patches"`
}

// OpenStore creates (if needed) and opens a patch store rooted at dir.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating patch store directory")
	}
	return &Store{dir: dir}, nil
}

// pathFor keys the set file on the target's absolute path, so the same
// file reached through different relative paths shares one set.
func (s *Store) pathFor(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".mp")
}

// Save replaces the persisted set for target. An empty set removes the
// file.
func (s *Store) Save(target string, patches []Patch) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(target)
	if len(patches) == 0 {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(err, "removing persisted patch set")
		}
		return nil
	}

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating patch set temp file")
	}
	defer os.Remove(f.Name())

	payload := &storePayload{Schema: storeSchemaVersion, Target: target, Patches: patches}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return errors.Wrap(err, "encoding patch set")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing patch set temp file")
	}
	return errors.Wrap(os.Rename(f.Name(), p), "replacing patch set")
}

// Load returns the persisted set for target, or nil when none exists.
// A set written under a different schema version is discarded rather
// than misread.
func (s *Store) Load(target string) ([]Patch, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(target))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "opening persisted patch set")
	}
	defer f.Close()

	var payload storePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decoding persisted patch set")
	}
	if payload.Schema != storeSchemaVersion {
		return nil, nil
	}
	return payload.Patches, nil
}
