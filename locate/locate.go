package locate

import (
	"bufio"
	"os"
	"strings"

	"github.com/andaru/largexml/finding"
)

// Refine computes an exact range for f by re-scanning the region
// around its reported line. The strategy is keyed by the finding kind:
//
//   - unclosed tag: the named tag's opening occurrence at or after the
//     reported line;
//   - mismatched tag or schema violation with a tag name: the exact
//     tag occurrence (opening, closing or self-closing) at the
//     reported line.
//
// When multiple candidates exist, the first occurrence at or after the
// reported line wins. Returns ok=false when no occurrence matches or
// the file cannot be read; the coarse position then stands.
func Refine(path string, f *finding.Finding) (finding.Range, bool) {
	if f == nil || f.TagName == "" || f.Line < 1 {
		return finding.Range{}, false
	}
	switch f.Kind {
	case finding.KindUnclosedTag:
		return findTag(path, f.Line, f.TagName, false)
	case finding.KindMismatchedTag, finding.KindStrayClosingTag,
		finding.KindSchemaViolation, finding.KindSchemaWarning, finding.KindMalformedTag:
		return findTag(path, f.Line, f.TagName, true)
	case finding.KindFatalIO, finding.KindFatalSchema:
		return finding.Range{}, false
	default:
		return finding.Range{}, false
	}
}

// findTag scans forward from fromLine for a tag occurrence of name.
// When exactLine is set only the reported line is considered;
// otherwise the search continues to the end of the file.
func findTag(path string, fromLine int, name string, exactLine bool) (finding.Range, bool) {
	f, err := os.Open(path)
	if err != nil {
		return finding.Range{}, false
	}
	defer f.Close()

	current := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 64*1024)
	for sc.Scan() {
		current++
		if current < fromLine {
			continue
		}
		if exactLine && current > fromLine {
			break
		}
		if r, ok := tagOnLine(sc.Text(), current, name); ok {
			return r, true
		}
	}
	return finding.Range{}, false
}

// tagOnLine finds the first occurrence of a tag named name on the
// line, opening ("<name"), closing ("</name") or self-closing. The
// returned range spans the tag's angle-bracket delimiters; a tag whose
// '>' lies beyond the line ends at the line's last column.
func tagOnLine(line string, lineNo int, name string) (finding.Range, bool) {
	for i := 0; i+1 < len(line); {
		idx := strings.IndexByte(line[i:], '<')
		if idx < 0 {
			break
		}
		start := i + idx
		rest := line[start+1:]
		if strings.HasPrefix(rest, "/") {
			rest = rest[1:]
		}
		if strings.HasPrefix(rest, name) && delimited(rest, len(name)) {
			end := strings.IndexByte(line[start:], '>')
			if end < 0 {
				end = len(line) - start - 1
			}
			return finding.Range{
				Start: finding.Position{Line: lineNo, Column: start + 1},
				End:   finding.Position{Line: lineNo, Column: start + end + 2},
			}, true
		}
		i = start + 1
	}
	return finding.Range{}, false
}

// delimited reports whether the character following a candidate name
// match terminates the name, avoiding prefix false-positives such as
// finding "item" within "<items>".
func delimited(rest string, nameLen int) bool {
	if len(rest) == nameLen {
		return true
	}
	switch rest[nameLen] {
	case ' ', '\t', '>', '/':
		return true
	}
	return false
}
