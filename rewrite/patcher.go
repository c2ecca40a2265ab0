package rewrite

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Patcher replaces an inclusive 1-based line range of a file with new
// fragment text. The patched content passes through the configured
// Checker before anything is written; a rejected fragment leaves the
// file untouched.
type Patcher struct {
	checker Checker
	backup  bool
}

// PatcherOption configures a Patcher.
type PatcherOption func(*Patcher)

// WithChecker replaces the default TagBalance checker.
func WithChecker(c Checker) PatcherOption {
	return func(p *Patcher) { p.checker = c }
}

// WithoutPatchBackup disables the .backup copy.
func WithoutPatchBackup() PatcherOption {
	return func(p *Patcher) { p.backup = false }
}

// NewPatcher creates a Patcher.
func NewPatcher(opts ...PatcherOption) *Patcher {
	p := &Patcher{checker: TagBalance{}, backup: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PatchLines writes fragment in place of lines [startLine, endLine] of
// the file at path. The patched content is streamed to a sibling temp
// file, checked, then moved over the original after a .backup copy.
func (p *Patcher) PatchLines(path, fragment string, startLine, endLine int) error {
	if startLine < 1 || endLine < startLine {
		return errors.Errorf("invalid line range [%d, %d]", startLine, endLine)
	}

	tmp, err := p.buildPatched(path, fragment, startLine, endLine)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	f, err := os.Open(tmp)
	if err != nil {
		return errors.Wrap(err, "reopening patched content")
	}
	checkErr := p.checker.Check(f)
	f.Close()
	if checkErr != nil {
		return errors.Wrap(checkErr, "patched content rejected")
	}

	if p.backup {
		if err := backupFile(path); err != nil {
			return err
		}
	}
	return errors.Wrap(os.Rename(tmp, path), "replacing file")
}

// AutoFix closes an element left open on a single line, the common
// case of a closing tag missing from the line that opened it. The fix
// applies only when the line opens tagName, does not already close it,
// and ends with a complete tag; anything else is rejected with the
// file untouched. The fixed line goes through PatchLines and its
// checker gate like any other fragment.
func (p *Patcher) AutoFix(path, tagName string, line int) error {
	if tagName == "" {
		return errors.New("no tag name to fix")
	}
	orig, err := readLine(path, line)
	if err != nil {
		return err
	}
	fixed, ok := closeOnLine(orig, tagName)
	if !ok {
		return errors.Errorf("no single-line fix for <%s> at line %d", tagName, line)
	}
	return p.PatchLines(path, fixed, line, line)
}

// readLine returns the 1-based nth line of the file.
func readLine(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	line := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, copyBufferSize), 16*1024*1024)
	for sc.Scan() {
		line++
		if line == n {
			return sc.Text(), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return "", errors.Errorf("file has %d line(s), wanted line %d", line, n)
}

// closeOnLine appends </tag> to a line whose visible content ends with
// a complete tag, keeping trailing whitespace in place.
func closeOnLine(line, tag string) (string, bool) {
	trimmed := strings.TrimRight(line, " \t\r")
	if !strings.Contains(trimmed, "<"+tag) ||
		strings.Contains(trimmed, "</"+tag+">") ||
		!strings.HasSuffix(trimmed, ">") {
		return "", false
	}
	return trimmed + "</" + tag + ">" + line[len(trimmed):], true
}

// buildPatched streams the original with the line range replaced into
// a temp file, returning its path. The presence or absence of a final
// newline in the source is preserved.
func (p *Patcher) buildPatched(path, fragment string, startLine, endLine int) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer src.Close()

	finalNewline, err := endsInNewline(src)
	if err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	w := bufio.NewWriterSize(tmp, copyBufferSize)

	fail := func(err error, msg string) (string, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, msg)
	}

	wrote := false
	emit := func(s string) error {
		if wrote {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		wrote = true
		_, err := w.WriteString(s)
		return err
	}

	line := 0
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, copyBufferSize), 16*1024*1024)
	for sc.Scan() {
		line++
		switch {
		case line < startLine:
			if err := emit(sc.Text()); err != nil {
				return fail(err, "writing patched content")
			}
		case line == startLine:
			if err := emit(strings.TrimSuffix(fragment, "\n")); err != nil {
				return fail(err, "writing fragment")
			}
		case line <= endLine:
			// replaced lines are dropped
		default:
			if err := emit(sc.Text()); err != nil {
				return fail(err, "writing patched content")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fail(err, "reading file")
	}
	if line < startLine {
		return fail(errors.Errorf("file has %d line(s), fragment starts at line %d", line, startLine),
			"building patched content")
	}
	if finalNewline && wrote {
		if err := w.WriteByte('\n'); err != nil {
			return fail(err, "writing patched content")
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err, "flushing patched content")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing temp file")
	}
	return tmp.Name(), nil
}

// endsInNewline reports whether the file's last byte is a newline,
// leaving the read position at the start.
func endsInNewline(f *os.File) (bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	if fi.Size() == 0 {
		return false, nil
	}
	buf := make([]byte, 1)
	if _, err := f.ReadAt(buf, fi.Size()-1); err != nil {
		return false, err
	}
	return buf[0] == '\n', nil
}
