package scan

import "fmt"

// tagInfo is the result of reading one complete tag token.
type tagInfo struct {
	name        string
	closing     bool
	selfClosing bool
	problems    []string
}

// parseTag reads a complete "<...>" token leniently, reporting each
// problem as human-readable text rather than stopping at the first.
func parseTag(tag []byte) (info tagInfo) {
	body := tag[1 : len(tag)-1] // strip the angle brackets
	if len(body) > 0 && body[0] == '/' {
		info.closing = true
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == '/' {
		if info.closing {
			info.problems = append(info.problems, "closing tag must not be self-closing")
		} else {
			info.selfClosing = true
		}
		body = body[:len(body)-1]
	}

	info.name = tagName(tag)
	if info.name == "" {
		info.problems = append(info.problems, fmt.Sprintf("tag %q is missing a valid element name", clip(tag, 30)))
		return
	}

	rest := body[len(info.name):]
	if info.closing {
		if !isBlank(rest) {
			info.problems = append(info.problems, fmt.Sprintf("closing tag </%s> must not carry attributes", info.name))
		}
		return
	}
	info.problems = append(info.problems, checkAttributes(info.name, rest)...)
	return
}

// checkAttributes leniently verifies the attribute region of an
// opening or self-closing tag: names present, values quoted, quotes
// closed. Namespace or duplicate checking is left to schema passes.
func checkAttributes(elem string, b []byte) (problems []string) {
	i := 0
	skip := func() {
		for i < len(b) && isSpace(b[i]) {
			i++
		}
	}
	for {
		skip()
		if i >= len(b) {
			return
		}
		start := i
		for i < len(b) && isNameByte(b[i]) {
			i++
		}
		if i == start {
			problems = append(problems,
				fmt.Sprintf("element <%s> has malformed attribute syntax near %q", elem, clip(b[i:], 20)))
			return
		}
		attr := string(b[start:i])
		skip()
		if i >= len(b) || b[i] != '=' {
			problems = append(problems,
				fmt.Sprintf("attribute %q of element <%s> has no value", attr, elem))
			continue
		}
		i++ // '='
		skip()
		if i >= len(b) || (b[i] != '"' && b[i] != '\'') {
			problems = append(problems,
				fmt.Sprintf("value of attribute %q of element <%s> is not quoted", attr, elem))
			// resynchronize at the next whitespace
			for i < len(b) && !isSpace(b[i]) {
				i++
			}
			continue
		}
		quote := b[i]
		i++
		for i < len(b) && b[i] != quote {
			i++
		}
		if i >= len(b) {
			problems = append(problems,
				fmt.Sprintf("value of attribute %q of element <%s> is missing its closing quote", attr, elem))
			return
		}
		i++ // closing quote
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if !isSpace(c) {
			return false
		}
	}
	return true
}
