package patch

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Manager holds the pending patch set for one file.
//
// Patches are keyed by fragment identity; a patch without a fragment
// identifier falls back to a key derived from its range. All mutating
// operations serialize on an internal mutex, and each mutation is
// persisted through the Store before the in-memory set changes, so a
// failed write leaves the set as it was.
type Manager struct {
	mu      sync.Mutex
	path    string
	store   *Store
	pending map[string]Patch
}

// NewManager creates a manager for the file at path. A nil store keeps
// the set in memory only; otherwise any set persisted for the path is
// loaded immediately.
func NewManager(path string, store *Store) (*Manager, error) {
	m := &Manager{path: path, store: store, pending: map[string]Patch{}}
	if store != nil {
		patches, err := store.Load(path)
		if err != nil {
			return nil, errors.Wrap(err, "loading persisted patches")
		}
		for _, p := range patches {
			m.pending[p.key()] = p
		}
	}
	return m, nil
}

// Path returns the file the manager's patches address.
func (m *Manager) Path() string { return m.path }

// Add records p, replacing any patch under the same key and evicting
// every retained patch whose range overlaps p's. Evicted patches are
// returned; re-adding the exact same patch is a no-op.
func (m *Manager) Add(p Patch) ([]Patch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.pending[p.key()]; ok && prev.Equal(p) {
		return nil, nil
	}

	next := make(map[string]Patch, len(m.pending)+1)
	var evicted []Patch
	for k, q := range m.pending {
		if k == p.key() || q.Overlaps(p) {
			if !q.Equal(p) {
				evicted = append(evicted, q)
			}
			continue
		}
		next[k] = q
	}
	next[p.key()] = p

	if err := m.persist(next); err != nil {
		return nil, err
	}
	m.pending = next
	sortPatches(evicted)
	return evicted, nil
}

// Remove drops the patch stored under the fragment key, reporting
// whether one was present.
func (m *Manager) Remove(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[key]; !ok {
		return false, nil
	}
	next := make(map[string]Patch, len(m.pending)-1)
	for k, q := range m.pending {
		if k != key {
			next[k] = q
		}
	}
	if err := m.persist(next); err != nil {
		return false, err
	}
	m.pending = next
	return true, nil
}

// ClearAll empties the pending set, both in memory and in the store.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(nil); err != nil {
		return err
	}
	m.pending = map[string]Patch{}
	return nil
}

// Sorted returns the pending patches ordered by ascending start
// offset. The retained set is pairwise non-overlapping, so the order
// is total.
func (m *Manager) Sorted() []Patch {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Patch, 0, len(m.pending))
	for _, p := range m.pending {
		out = append(out, p)
	}
	sortPatches(out)
	return out
}

// Len returns the number of pending patches.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manager) persist(set map[string]Patch) error {
	if m.store == nil {
		return nil
	}
	patches := make([]Patch, 0, len(set))
	for _, p := range set {
		patches = append(patches, p)
	}
	sortPatches(patches)
	return m.store.Save(m.path, patches)
}

func sortPatches(ps []Patch) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Start != ps[j].Start {
			return ps[i].Start < ps[j].Start
		}
		return ps[i].End < ps[j].End
	})
}
