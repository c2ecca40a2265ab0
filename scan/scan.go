package scan

import (
	"bufio"
	"fmt"
	"io"

	"github.com/andaru/largexml/finding"
)

const defaultBufferSize = 64 * 1024

// Scanner performs the tolerant structural pass.
//
// A Scanner holds only configuration; Scan may be called repeatedly
// and concurrently with distinct sinks.
type Scanner struct {
	bufSize int
}

// Option is a Scanner constructor option function.
type Option func(*Scanner)

// WithBufferSize configures the token buffer capacity of the
// underlying bufio.Scanner. Sizes below twice maxTagBytes are raised
// to keep whole tag tokens inside one buffer.
func WithBufferSize(bytes int) Option {
	return func(s *Scanner) {
		if bytes < 2*maxTagBytes {
			bytes = 2 * maxTagBytes
		}
		s.bufSize = bytes
	}
}

// New creates a structural Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{bufSize: defaultBufferSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// openElement records an element awaiting its closing tag.
type openElement struct {
	name string
	line int
	col  int
}

// Scan reads the document from r in a single forward pass, recording
// every structural problem into sink. It never fails: results are
// observed only through the sink. An unrecoverable read error ends the
// pass with one fatal finding.
func (s *Scanner) Scan(r io.Reader, sink *finding.Collector) {
	lex := &lexer{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, s.bufSize), s.bufSize)
	sc.Split(lex.split)

	line, col := 1, 1
	advance := func(b []byte) {
		for _, c := range b {
			if c == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}

	var stack []openElement
	regionLine := 0
	prevState := lexText

	for sc.Scan() {
		tok := sc.Bytes()
		kind := lex.next()
		startLine, startCol := line, col

		switch kind {
		case tokTag:
			stack = s.handleTag(tok, startLine, startCol, stack, sink)
		case tokBadTag:
			sink.Add(fmt.Sprintf("markup starting with %q is not a valid tag", clip(tok, 30)),
				startLine, finding.KindMalformedTag, finding.WithColumn(startCol))
		}

		advance(tok)
		if prevState == lexText && lex.state != lexText {
			regionLine = startLine
		}
		prevState = lex.state
	}

	if err := sc.Err(); err != nil {
		sink.Add("unreadable input: "+err.Error(), 0, finding.KindFatalIO)
		return
	}

	if lex.unterminated {
		sink.Add(fmt.Sprintf("unterminated %s reaches end of input", lex.state),
			regionLine, finding.KindMalformedTag)
	}
	for _, open := range stack {
		sink.Add(fmt.Sprintf("element <%s> opened at line %d is never closed", open.name, open.line),
			open.line, finding.KindUnclosedTag,
			finding.WithTagName(open.name), finding.WithColumn(open.col),
			finding.WithSuggestion(fmt.Sprintf("add </%s>", open.name)))
	}
}

// handleTag processes one complete tag token, returning the updated
// open element stack.
func (s *Scanner) handleTag(tok []byte, line, col int, stack []openElement, sink *finding.Collector) []openElement {
	info := parseTag(tok)
	for _, problem := range info.problems {
		sink.Add(problem, line, finding.KindMalformedTag,
			finding.WithTagName(info.name), finding.WithColumn(col))
	}
	if info.name == "" {
		return stack
	}

	if info.closing {
		switch at := indexOf(stack, info.name); {
		case len(stack) == 0:
			sink.Add(fmt.Sprintf("closing tag </%s> has no matching opening tag", info.name),
				line, finding.KindStrayClosingTag,
				finding.WithTagName(info.name), finding.WithColumn(col),
				finding.WithSuggestion(fmt.Sprintf("remove </%s>", info.name)))
		case stack[len(stack)-1].name == info.name:
			stack = stack[:len(stack)-1]
		case at >= 0:
			// the close matches an outer element; everything opened
			// inside it is unclosed
			for _, skipped := range stack[at+1:] {
				sink.Add(fmt.Sprintf("element <%s> opened at line %d is never closed", skipped.name, skipped.line),
					skipped.line, finding.KindUnclosedTag,
					finding.WithTagName(skipped.name), finding.WithColumn(skipped.col),
					finding.WithSuggestion(fmt.Sprintf("add </%s>", skipped.name)))
			}
			stack = stack[:at]
		default:
			sink.Add(fmt.Sprintf("closing tag </%s> does not match open element <%s> (opened at line %d)",
				info.name, stack[len(stack)-1].name, stack[len(stack)-1].line),
				line, finding.KindMismatchedTag,
				finding.WithTagName(info.name), finding.WithColumn(col),
				finding.WithSuggestion(fmt.Sprintf("expected </%s>", stack[len(stack)-1].name)))
		}
		return stack
	}

	if !info.selfClosing {
		stack = append(stack, openElement{name: info.name, line: line, col: col})
	}
	return stack
}

func indexOf(stack []openElement, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

func clip(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
