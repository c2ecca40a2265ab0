package zone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestExtractWindow(t *testing.T) {
	path := writeLines(t, 50)
	for _, tc := range []struct {
		center    int
		context   int
		wantStart int
		wantEnd   int
		wantCount int
	}{
		{center: 10, context: 3, wantStart: 7, wantEnd: 13, wantCount: 7},
		{center: 1, context: 3, wantStart: 1, wantEnd: 4, wantCount: 4},
		{center: 2, context: 3, wantStart: 1, wantEnd: 5, wantCount: 5},
		{center: 50, context: 3, wantStart: 47, wantEnd: 53, wantCount: 4},
		{center: 49, context: 5, wantStart: 44, wantEnd: 54, wantCount: 7},
	} {
		t.Run(fmt.Sprintf("center%d", tc.center), func(t *testing.T) {
			ck := assert.New(t)
			z := New(WithContextLines(tc.context)).Extract(path, tc.center)
			ck.False(z.IsEmpty())
			ck.Equal(tc.wantStart, z.StartLine)
			ck.Equal(tc.wantEnd, z.EndLine)
			ck.Equal(tc.center, z.CenterLine)
			ck.Equal(tc.wantCount, z.LineCount)
			ck.Equal(tc.wantCount, len(strings.Split(z.Content, "\n")))
			ck.Contains(z.Content, fmt.Sprintf("line %d", tc.center))
		})
	}
}

func TestExtractBeyondEOF(t *testing.T) {
	ck := assert.New(t)
	path := writeLines(t, 5)
	// far beyond the end of file: short zone, not a failure... unless
	// the window is entirely past the end, which yields Empty
	z := New().Extract(path, 7)
	ck.False(z.IsEmpty())
	ck.Equal(2, z.LineCount)

	z = New().Extract(path, 100)
	ck.True(z.IsEmpty())
}

func TestExtractMissingFile(t *testing.T) {
	z := New().Extract(filepath.Join(t.TempDir(), "nope.xml"), 3)
	assert.True(t, z.IsEmpty())
	assert.Equal(t, Empty, z)
}

func TestExtractWithParent(t *testing.T) {
	ck := assert.New(t)
	content := "<catalog>\n" +
		"  <book id=\"1\">\n" +
		"    <title>go</title>\n" +
		"    <price>10</price>\n" +
		"  </book>\n" +
		"</catalog>\n"
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	z := New().ExtractWithParent(path, 4, "price")
	ck.False(z.IsEmpty())
	ck.Equal("catalog", z.ParentTag)
	ck.Contains(z.Content, "<price>")
}

func TestExtractAt(t *testing.T) {
	ck := assert.New(t)
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root>0123456789</root>"), 0o644))

	z := New().ExtractAt(path, 10, 4)
	ck.Equal("01234567", z.Content)
	ck.Equal(1, z.LineCount)

	// clamped at both ends
	z = New().ExtractAt(path, 0, 6)
	ck.Equal("<root>", z.Content)
	z = New().ExtractAt(path, 23, 4)
	ck.Equal("oot>", z.Content)

	// empty window and missing file
	ck.True(New().ExtractAt(path, 1000, 4).IsEmpty())
	ck.True(New().ExtractAt(filepath.Join(t.TempDir(), "x"), 0, 4).IsEmpty())
}
