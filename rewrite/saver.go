package rewrite

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/andaru/largexml/patch"
	"github.com/andaru/largexml/track"
)

// ErrStale rejects a save because the file changed after its patches
// were recorded; the offsets can no longer be trusted.
var ErrStale = errors.New("file changed since patches were recorded")

const copyBufferSize = 64 * 1024

// Saver applies a manager's pending patch set to a file in one
// streamed pass.
type Saver struct {
	backup bool
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithoutBackup disables the .backup copy of the pre-save target.
func WithoutBackup() SaverOption {
	return func(s *Saver) { s.backup = false }
}

// NewSaver creates a Saver. Backups are on by default.
func NewSaver(opts ...SaverOption) *Saver {
	s := &Saver{backup: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes originalPath's content with every pending patch applied
// to outputPath, which may equal originalPath. The patch set is
// validated against the original file before any byte is written; an
// invalid set aborts with the filesystem untouched. On success the
// manager's pending set is cleared.
func (s *Saver) Save(originalPath, outputPath string, m *patch.Manager) error {
	fi, err := os.Stat(originalPath)
	if err != nil {
		return errors.Wrap(err, "stat original file")
	}

	patches := m.Sorted()
	if err := validatePatches(patches, fi.Size()); err != nil {
		return err
	}

	samePath := sameFile(originalPath, outputPath)
	target := outputPath
	if samePath {
		tmp, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp-*")
		if err != nil {
			return errors.Wrap(err, "creating temp output")
		}
		tmp.Close()
		target = tmp.Name()
		defer os.Remove(target)
	}

	if s.backup {
		if err := backupFile(outputPath); err != nil {
			return err
		}
	}

	if err := s.apply(originalPath, target, patches, fi.Size()); err != nil {
		return err
	}
	if samePath {
		if err := os.Rename(target, outputPath); err != nil {
			return errors.Wrap(err, "replacing original file")
		}
	}
	return m.ClearAll()
}

// SaveIfUnchanged is Save guarded by a stamp captured at validation
// time. A file that no longer matches fails with ErrStale and the
// pending set is retained.
func (s *Saver) SaveIfUnchanged(originalPath, outputPath string, m *patch.Manager, stamp track.Stamp) error {
	if !stamp.Matches(originalPath) {
		return errors.WithStack(ErrStale)
	}
	return s.Save(originalPath, outputPath, m)
}

// apply copies the original forward, splicing each patch's text in
// place of its original-file range. The cursor always addresses the
// original file, so offsets stay valid across earlier length changes.
func (s *Saver) apply(originalPath, targetPath string, patches []patch.Patch, size int64) error {
	src, err := os.Open(originalPath)
	if err != nil {
		return errors.Wrap(err, "opening original file")
	}
	defer src.Close()

	dst, err := os.Create(targetPath)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer dst.Close()

	w := bufio.NewWriterSize(dst, copyBufferSize)
	var cursor int64
	for _, p := range patches {
		if p.Start > cursor {
			if _, err := io.CopyN(w, src, p.Start-cursor); err != nil {
				return errors.Wrap(err, "copying original content")
			}
		}
		if _, err := w.WriteString(p.Text); err != nil {
			return errors.Wrap(err, "writing replacement text")
		}
		// skip the replaced original bytes
		if p.End > p.Start {
			if _, err := src.Seek(p.End, io.SeekStart); err != nil {
				return errors.Wrap(err, "seeking past replaced range")
			}
		}
		cursor = p.End
	}
	if cursor < size {
		if _, err := io.CopyN(w, src, size-cursor); err != nil {
			return errors.Wrap(err, "copying trailing content")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flushing output")
	}
	return errors.Wrap(dst.Close(), "closing output")
}

// validatePatches rejects a set that cannot be applied in one forward
// pass: any out-of-range offset or overlap between neighbours.
func validatePatches(patches []patch.Patch, fileSize int64) error {
	var lastEnd int64
	for i, p := range patches {
		if p.Start < 0 {
			return errors.Errorf("patch #%d has negative start offset %d", i, p.Start)
		}
		if p.End > fileSize {
			return errors.Errorf("patch #%d range [%d, %d) extends past end of file (%d bytes)",
				i, p.Start, p.End, fileSize)
		}
		if p.Start < lastEnd {
			return errors.Errorf("patch #%d at offset %d overlaps the previous patch ending at %d",
				i, p.Start, lastEnd)
		}
		lastEnd = p.End
	}
	return nil
}

func sameFile(a, b string) bool {
	aa, err := filepath.Abs(a)
	if err != nil {
		return a == b
	}
	bb, err := filepath.Abs(b)
	if err != nil {
		return a == b
	}
	return aa == bb
}

// backupFile copies path to path+".backup" when path exists.
func backupFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "opening file for backup")
	}
	defer src.Close()

	dst, err := os.Create(path + ".backup")
	if err != nil {
		return errors.Wrap(err, "creating backup file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "writing backup file")
	}
	return errors.Wrap(dst.Close(), "closing backup file")
}
