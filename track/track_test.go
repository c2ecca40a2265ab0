package track

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampMatches(t *testing.T) {
	ck := assert.New(t)
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root/>"), 0o644))

	s, err := StampPath(path)
	require.NoError(t, err)
	ck.False(s.IsZero())
	ck.True(s.Matches(path))

	// a content change of different length no longer matches
	require.NoError(t, os.WriteFile(path, []byte("<root></root>"), 0o644))
	ck.False(s.Matches(path))

	// a deleted file never matches
	require.NoError(t, os.Remove(path))
	ck.False(s.Matches(path))

	_, err = StampPath(path)
	ck.Error(err)
}

func TestStampSameSizeDifferentTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))
	s, err := StampPath(path)
	require.NoError(t, err)

	// same length, forced newer mtime
	require.NoError(t, os.WriteFile(path, []byte("<b/>"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
	assert.False(t, s.Matches(path))
}

func TestTrackerCountsWrites(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root/>"), 0o644))

	tr, err := NewTracker()
	require.NoError(t, err)
	defer tr.Close()
	require.NoError(t, tr.Watch(path))
	ck.Equal(uint64(0), tr.Generation(path))

	require.NoError(t, os.WriteFile(path, []byte("<root>changed</root>"), 0o644))

	// notification delivery is asynchronous
	deadline := time.Now().Add(3 * time.Second)
	for tr.Generation(path) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	ck.Greater(tr.Generation(path), uint64(0))
}

func TestTrackerIgnoresUntrackedSiblings(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.xml")
	other := filepath.Join(dir, "other.xml")
	require.NoError(t, os.WriteFile(tracked, []byte("<a/>"), 0o644))

	tr, err := NewTracker()
	require.NoError(t, err)
	defer tr.Close()
	require.NoError(t, tr.Watch(tracked))

	require.NoError(t, os.WriteFile(other, []byte("<b/>"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, uint64(0), tr.Generation(tracked))
}

func TestTrackerBump(t *testing.T) {
	tr, err := NewTracker()
	require.NoError(t, err)
	defer tr.Close()

	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))
	require.NoError(t, tr.Watch(path))
	tr.Bump(path)
	assert.GreaterOrEqual(t, tr.Generation(path), uint64(1))
}
