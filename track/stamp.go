package track

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// Stamp is a point-in-time identity for a file's content, good enough
// to detect modification between validation and save.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

// NewStamp derives a stamp from file metadata.
func NewStamp(fi os.FileInfo) Stamp {
	return Stamp{Size: fi.Size(), ModTime: fi.ModTime()}
}

// StampPath stats path and returns its stamp.
func StampPath(path string) (Stamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Stamp{}, errors.Wrap(err, "stamping file")
	}
	return NewStamp(fi), nil
}

// IsZero reports whether the stamp was never captured.
func (s Stamp) IsZero() bool { return s.Size == 0 && s.ModTime.IsZero() }

// Matches reports whether the file at path still carries this stamp.
// A file that cannot be stat'ed does not match.
func (s Stamp) Matches(path string) bool {
	now, err := StampPath(path)
	if err != nil {
		return false
	}
	return s.Size == now.Size && s.ModTime.Equal(now.ModTime)
}
