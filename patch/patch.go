package patch

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Type represents the patch type enumerate
type Type int

const (
	// TypeReplace substitutes the range's bytes with the replacement text.
	TypeReplace Type = iota
	// TypeInsert inserts at a point; start and end offsets are equal.
	TypeInsert
	// TypeDelete removes the range; the replacement text is empty.
	TypeDelete
)

func (t Type) String() string {
	switch t {
	case TypeReplace:
		return "REPLACE"
	case TypeInsert:
		return "INSERT"
	case TypeDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "REPLACE":
		*t = TypeReplace
	case "INSERT":
		*t = TypeInsert
	case "DELETE":
		*t = TypeDelete
	default:
		return errors.New("unknown value")
	}
	return nil
}

// Patch is an immutable edit against the original file.
//
// Start (inclusive) and End (exclusive) are byte offsets into the
// original file on disk. Text is the UTF-8 replacement written in
// place of the range.
type Patch struct {
	Start      int64  `msgpack:"start" json:"startOffset"`
	End        int64  `msgpack:"end" json:"endOffset"`
	Text       string `msgpack:"text" json:"replacementText"`
	Type       Type   `msgpack:"type" json:"type"`
	FragmentID string `msgpack:"fragmentId" json:"fragmentId"`
}

// New validates offsets and creates a Patch. Start must be ≥ 0 and End
// ≥ Start; for an insertion Start == End is valid.
func New(start, end int64, text string, typ Type, fragmentID string) (Patch, error) {
	if start < 0 {
		return Patch{}, errors.Errorf("patch start offset must be >= 0, got %d", start)
	}
	if end < start {
		return Patch{}, errors.Errorf("invalid patch range [%d, %d)", start, end)
	}
	return Patch{Start: start, End: end, Text: text, Type: typ, FragmentID: fragmentID}, nil
}

// OriginalLength returns the number of original-file bytes replaced.
func (p Patch) OriginalLength() int64 { return p.End - p.Start }

// NewLength returns the UTF-8 byte length of the replacement text.
func (p Patch) NewLength() int64 { return int64(len(p.Text)) }

// LengthDelta returns how much the patch grows (positive) or shrinks
// (negative) the document.
func (p Patch) LengthDelta() int64 { return p.NewLength() - p.OriginalLength() }

// Overlaps reports whether the two patches' [Start, End) ranges
// intersect. Pure insertions at the same point do not overlap.
func (p Patch) Overlaps(q Patch) bool {
	lo, hi := p.Start, p.End
	if q.Start > lo {
		lo = q.Start
	}
	if q.End < hi {
		hi = q.End
	}
	return lo < hi
}

// Equal reports patch equality by range, text and type. Fragment
// identity does not participate.
func (p Patch) Equal(q Patch) bool {
	return p.Start == q.Start && p.End == q.End && p.Text == q.Text && p.Type == q.Type
}

func (p Patch) String() string {
	text := p.Text
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	return fmt.Sprintf("patch{[%d,%d) %s len:%d->%d text:%q frag:%q}",
		p.Start, p.End, p.Type, p.OriginalLength(), p.NewLength(), text, p.FragmentID)
}

// key is the identity under which a Manager retains the patch.
func (p Patch) key() string {
	if p.FragmentID != "" {
		return p.FragmentID
	}
	return fmt.Sprintf("range:%d-%d", p.Start, p.End)
}
