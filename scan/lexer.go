package scan

import "bytes"

// tokenKind classifies tokens emitted by the markup lexer.
type tokenKind int

const (
	// tokRaw is character data or a chunk of a comment, CDATA section,
	// processing instruction or doctype declaration. The driver only
	// counts line breaks in raw tokens.
	tokRaw tokenKind = iota
	// tokTag is a complete tag token, "<...>" inclusive.
	tokTag
	// tokBadTag is a markup start that never became a complete tag.
	tokBadTag
)

// lexState is the lexer's region state between split calls.
type lexState int

const (
	lexText lexState = iota
	lexComment
	lexCDATA
	lexPI
	lexDoctype
)

func (s lexState) String() string {
	switch s {
	case lexText:
		return "text"
	case lexComment:
		return "comment"
	case lexCDATA:
		return "CDATA section"
	case lexPI:
		return "processing instruction"
	case lexDoctype:
		return "doctype declaration"
	default:
		return "unknown"
	}
}

// maxTagBytes bounds how far the lexer searches for a tag's closing
// angle bracket before declaring the tag malformed. Keeps single
// tokens comfortably inside the scanner buffer.
const maxTagBytes = 4096

var (
	openComment = []byte("<!--")
	openCDATA   = []byte("<![CDATA[")
	endComment  = []byte("-->")
	endCDATA    = []byte("]]>")
	endPI       = []byte("?>")
)

// lexer tokenizes an XML byte stream into tags and raw chunks.
//
// split is a bufio.SplitFunc; each token returned is paired with a kind
// pushed onto kinds, popped by the driver after every Scan. The lexer
// never fails the scan: malformed markup becomes a tokBadTag token and
// tokenization continues after it.
type lexer struct {
	state        lexState
	kinds        []tokenKind
	doctypeDepth int

	// unterminated is set at EOF when a comment, CDATA section,
	// processing instruction or doctype is still open.
	unterminated bool
}

func (l *lexer) emit(kind tokenKind, advance int, token []byte) (int, []byte, error) {
	l.kinds = append(l.kinds, kind)
	return advance, token, nil
}

// next pops the kind of the most recently scanned token.
func (l *lexer) next() tokenKind {
	k := l.kinds[0]
	l.kinds = l.kinds[1:]
	return k
}

func (l *lexer) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil
	}
	switch l.state {
	case lexComment:
		return l.splitRegion(data, atEOF, endComment)
	case lexCDATA:
		return l.splitRegion(data, atEOF, endCDATA)
	case lexPI:
		return l.splitRegion(data, atEOF, endPI)
	case lexDoctype:
		return l.splitDoctype(data, atEOF)
	}
	if data[0] != '<' {
		// character data up to the next markup start
		if idx := bytes.IndexByte(data, '<'); idx >= 0 {
			return l.emit(tokRaw, idx, data[:idx])
		}
		return l.emit(tokRaw, len(data), data)
	}
	return l.splitMarkup(data, atEOF)
}

// splitMarkup handles data beginning with '<'.
func (l *lexer) splitMarkup(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// distinguishing "<!--", "<![CDATA[", "<!", "<?" and a plain tag
	// requires up to len(openCDATA) bytes
	if len(data) < len(openCDATA) && !atEOF &&
		(bytes.HasPrefix(openCDATA, data) || bytes.HasPrefix(openComment, data)) {
		return 0, nil, nil
	}

	switch {
	case bytes.HasPrefix(data, openComment):
		l.state = lexComment
		return l.splitRegion(data, atEOF, endComment)
	case bytes.HasPrefix(data, openCDATA):
		l.state = lexCDATA
		return l.splitRegion(data, atEOF, endCDATA)
	case len(data) > 1 && data[1] == '?':
		l.state = lexPI
		return l.splitRegion(data, atEOF, endPI)
	case len(data) > 1 && data[1] == '!':
		l.state = lexDoctype
		l.doctypeDepth = 0
		return l.splitDoctype(data, atEOF)
	}

	// plain tag: scan for the closing '>', honoring quoted attribute
	// values which may legally contain '>'
	var quote byte
	for i := 1; i < len(data); i++ {
		switch b := data[i]; {
		case quote != 0:
			if b == quote {
				quote = 0
			}
		case b == '"' || b == '\'':
			quote = b
		case b == '>':
			return l.emit(tokTag, i+1, data[:i+1])
		case b == '<':
			// a second '<' before '>' cannot be part of this tag
			return l.emit(tokBadTag, i, data[:i])
		}
	}
	if !atEOF && len(data) < maxTagBytes {
		return 0, nil, nil
	}
	// tag never closed within bounds; surface what we have
	return l.emit(tokBadTag, len(data), data)
}

// splitRegion consumes a comment, CDATA section or processing
// instruction, emitting buffer-bounded raw chunks until the terminator.
func (l *lexer) splitRegion(data []byte, atEOF bool, end []byte) (advance int, token []byte, err error) {
	if idx := bytes.Index(data, end); idx >= 0 {
		l.state = lexText
		n := idx + len(end)
		return l.emit(tokRaw, n, data[:n])
	}
	if atEOF {
		l.unterminated = true
		return l.emit(tokRaw, len(data), data)
	}
	// hold back a potential partial terminator at the chunk boundary
	keep := len(end) - 1
	if len(data) <= keep {
		return 0, nil, nil
	}
	n := len(data) - keep
	return l.emit(tokRaw, n, data[:n])
}

// splitDoctype consumes a doctype declaration, tracking the internal
// subset brackets so "]>" inside the subset does not end it early.
func (l *lexer) splitDoctype(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '[':
			l.doctypeDepth++
		case ']':
			if l.doctypeDepth > 0 {
				l.doctypeDepth--
			}
		case '>':
			if l.doctypeDepth == 0 {
				l.state = lexText
				return l.emit(tokRaw, i+1, data[:i+1])
			}
		}
	}
	if atEOF {
		l.unterminated = true
		return l.emit(tokRaw, len(data), data)
	}
	return l.emit(tokRaw, len(data), data)
}
