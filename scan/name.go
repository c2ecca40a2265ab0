package scan

// isNameStart reports whether b may begin an XML name. Multi-byte
// characters are accepted wholesale; the scanner stays lenient about
// exotic identifiers rather than rejecting valid documents.
func isNameStart(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b == '_' || b == ':':
		return true
	case b >= 0x80:
		return true
	}
	return false
}

// isNameByte reports whether b may appear within an XML name.
func isNameByte(b byte) bool {
	switch {
	case isNameStart(b):
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.':
		return true
	}
	return false
}

// tagName extracts the element name from the head of a tag token such as
// "<name attr=..>" or "</name>", returning "" when no name is present.
func tagName(tag []byte) string {
	i := 1
	if i < len(tag) && tag[i] == '/' {
		i++
	}
	start := i
	for i < len(tag) && isNameByte(tag[i]) {
		i++
	}
	if i == start || !isNameStart(tag[start]) {
		return ""
	}
	return string(tag[start:i])
}
