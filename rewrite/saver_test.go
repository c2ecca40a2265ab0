package rewrite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/largexml/patch"
	"github.com/andaru/largexml/track"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustAdd(t *testing.T, m *patch.Manager, start, end int64, text string, typ patch.Type) {
	t.Helper()
	p, err := patch.New(start, end, text, typ, "")
	require.NoError(t, err)
	_, err = m.Add(p)
	require.NoError(t, err)
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestSaveExpandingPatch(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root>AB</root>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 6, 8, "EXPANDED_TEXT", patch.TypeReplace)

	require.NoError(t, NewSaver().Save(orig, out, m))
	got := readBack(t, out)
	ck.Equal("<root>EXPANDED_TEXT</root>", got)
	ck.Len(got, 26)
	ck.Equal(0, m.Len())
}

func TestSaveMultiplePatches(t *testing.T) {
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<a>111</a><b>222</b><c>333</c>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 3, 6, "ALPHA", patch.TypeReplace)
	mustAdd(t, m, 13, 16, "B", patch.TypeReplace)
	mustAdd(t, m, 23, 26, "GAMMA", patch.TypeReplace)

	require.NoError(t, NewSaver().Save(orig, out, m))
	assert.Equal(t, "<a>ALPHA</a><b>B</b><c>GAMMA</c>", readBack(t, out))
}

func TestSaveReplaceAndDelete(t *testing.T) {
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml",
		"<root><item>Original</item><item>ToDelete</item></root>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 12, 20, "Patched", patch.TypeReplace)
	mustAdd(t, m, 27, 48, "", patch.TypeDelete)

	require.NoError(t, NewSaver().Save(orig, out, m))
	assert.Equal(t, "<root><item>Patched</item></root>", readBack(t, out))
}

func TestSaveInPlaceWithBackup(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root>AB</root>")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 6, 8, "XY", patch.TypeReplace)

	require.NoError(t, NewSaver().Save(orig, orig, m))
	ck.Equal("<root>XY</root>", readBack(t, orig))
	ck.Equal("<root>AB</root>", readBack(t, orig+".backup"))
}

func TestSaveRejectsOutOfRange(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root/>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 5, 500, "x", patch.TypeReplace)

	err = NewSaver().Save(orig, out, m)
	ck.Error(err)
	ck.Contains(err.Error(), "past end of file")
	// nothing written, pending set retained
	_, statErr := os.Stat(out)
	ck.True(os.IsNotExist(statErr))
	ck.Equal(1, m.Len())
}

func TestSaveInsertionAtPoint(t *testing.T) {
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root></root>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 6, 6, "<item/>", patch.TypeInsert)

	require.NoError(t, NewSaver().Save(orig, out, m))
	assert.Equal(t, "<root><item/></root>", readBack(t, out))
}

func TestSaveIfUnchangedRejectsStale(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root>AB</root>")
	out := filepath.Join(dir, "out.xml")

	stamp, err := track.StampPath(orig)
	require.NoError(t, err)

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	mustAdd(t, m, 6, 8, "XY", patch.TypeReplace)

	// file grows after the stamp was captured
	require.NoError(t, os.WriteFile(orig, []byte("<root>ABCD</root>"), 0o644))
	err = NewSaver().SaveIfUnchanged(orig, out, m, stamp)
	require.Error(t, err)
	ck.ErrorIs(err, ErrStale)
	ck.Equal(1, m.Len())

	// a fresh stamp allows the save
	stamp, err = track.StampPath(orig)
	require.NoError(t, err)
	ck.NoError(NewSaver().SaveIfUnchanged(orig, out, m, stamp))
}

func TestSaveNoPatchesCopies(t *testing.T) {
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<root>unchanged</root>")
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	require.NoError(t, NewSaver().Save(orig, out, m))
	assert.Equal(t, "<root>unchanged</root>", readBack(t, out))
}

func TestSaveLargeFileUsesChunkedCopy(t *testing.T) {
	dir := t.TempDir()
	var big []byte
	big = append(big, "<root>"...)
	for i := 0; i < 20000; i++ {
		big = append(big, "<item>abcdefghij</item>"...)
	}
	big = append(big, "</root>"...)
	orig := writeDoc(t, dir, "big.xml", string(big))
	out := filepath.Join(dir, "out.xml")

	m, err := patch.NewManager(orig, nil)
	require.NoError(t, err)
	// replace the first item's text
	mustAdd(t, m, 12, 22, "ZZZZ", patch.TypeReplace)

	require.NoError(t, NewSaver().Save(orig, out, m))
	got := readBack(t, out)
	require.True(t, len(got) == len(big)-6)
	assert.Equal(t, "<root><item>ZZZZ</item>", got[:23])
	assert.Equal(t, "</root>", got[len(got)-7:])
}

func TestStampGuardTimingIndependent(t *testing.T) {
	// stamps compare by equality, not ordering, so clock skew in
	// either direction invalidates
	dir := t.TempDir()
	orig := writeDoc(t, dir, "doc.xml", "<a/>")
	stamp, err := track.StampPath(orig)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(orig, past, past))
	assert.False(t, stamp.Matches(orig))
}
