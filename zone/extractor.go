package zone

import (
	"bufio"
	"os"
	"strings"
)

// DefaultContextLines is the number of context lines extracted around
// the center line when no override is configured.
const DefaultContextLines = 3

// Zone is a bounded textual excerpt around a point of interest.
type Zone struct {
	Content    string `json:"content"`
	StartLine  int    `json:"startLine"`
	EndLine    int    `json:"endLine"`
	CenterLine int    `json:"centerLine"`
	LineCount  int    `json:"lineCount"`

	// ParentTag is the nearest preceding opening tag distinct from the
	// finding's own tag, when extracted with parent context. It is a
	// line-level heuristic, not the result of a real parse.
	ParentTag string `json:"parentTag,omitempty"`
}

// Empty is the zone returned when extraction fails.
var Empty = Zone{}

// IsEmpty reports whether the zone carries no content.
func (z Zone) IsEmpty() bool { return strings.TrimSpace(z.Content) == "" }

// Extractor extracts zones from files on disk.
type Extractor struct {
	contextLines int
	bufSize      int
}

// Option is an Extractor constructor option function.
type Option func(*Extractor)

// WithContextLines sets the context line count for Extract.
func WithContextLines(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.contextLines = n
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{contextLines: DefaultContextLines, bufSize: 64 * 1024}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the excerpt centered on centerLine (1-based) spanning
// the configured context. Reading stops once the window closes; a
// center beyond end of file yields a zone with fewer lines than
// requested, not a failure.
func (e *Extractor) Extract(path string, centerLine int) Zone {
	return e.window(path, centerLine, e.contextLines, e.contextLines, "")
}

// ExtractWithParent returns a widened excerpt around line which also
// reports the nearest preceding opening tag distinct from tagName, to
// approximate the enclosing parent element.
func (e *Extractor) ExtractWithParent(path string, line int, tagName string) Zone {
	return e.window(path, line, 10, 5, tagName)
}

func (e *Extractor) window(path string, centerLine, before, after int, parentOf string) Zone {
	if centerLine < 1 {
		return Empty
	}
	f, err := os.Open(path)
	if err != nil {
		return Empty
	}
	defer f.Close()

	startLine := centerLine - before
	if startLine < 1 {
		startLine = 1
	}
	endLine := centerLine + after

	var lines []string
	var parentTag string
	current := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, e.bufSize), e.bufSize)
	for sc.Scan() {
		current++
		if current < startLine {
			continue
		}
		if current > endLine {
			break
		}
		text := sc.Text()
		lines = append(lines, text)
		if parentOf != "" && parentTag == "" && strings.Contains(text, "<") && !strings.Contains(text, "</") {
			if tag := openingTag(text); tag != "" && tag != parentOf {
				parentTag = tag
			}
		}
	}
	if sc.Err() != nil || len(lines) == 0 {
		return Empty
	}

	return Zone{
		Content:    strings.Join(lines, "\n"),
		StartLine:  startLine,
		EndLine:    endLine,
		CenterLine: centerLine,
		LineCount:  len(lines),
		ParentTag:  parentTag,
	}
}

// ExtractAt returns up to contextBytes bytes either side of an
// approximate byte offset, clamped to the file. The window is decoded
// as UTF-8 text; multi-byte sequences cut at the window boundary are
// kept as-is, a documented limitation of offset-based extraction.
func (e *Extractor) ExtractAt(path string, offset int64, contextBytes int) Zone {
	f, err := os.Open(path)
	if err != nil {
		return Empty
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Empty
	}
	start := offset - int64(contextBytes)
	if start < 0 {
		start = 0
	}
	end := offset + int64(contextBytes)
	if end > fi.Size() {
		end = fi.Size()
	}
	if end <= start {
		return Empty
	}

	buf := make([]byte, end-start)
	if _, err := f.ReadAt(buf, start); err != nil {
		return Empty
	}
	content := string(buf)
	return Zone{Content: content, LineCount: countLines(content)}
}

// openingTag extracts an element name from the first tag on a line, a
// heuristic good enough for parent-context reporting.
func openingTag(line string) string {
	start := strings.IndexByte(line, '<')
	if start < 0 || start+1 >= len(line) {
		return ""
	}
	rest := line[start+1:]
	if rest[0] == '!' || rest[0] == '?' || rest[0] == '/' {
		return ""
	}
	end := strings.IndexAny(rest, " \t>/")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
