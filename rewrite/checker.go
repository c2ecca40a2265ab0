package rewrite

import (
	"bufio"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Checker judges whether patched content is structurally sound enough
// to write. An error rejects the write and leaves the file untouched.
type Checker interface {
	Check(r io.Reader) error
}

// TagBalance is a fast approximate checker counting opening, closing
// and self-closing tags in a single streamed pass. A count skew of at
// most one is tolerated: a fragment under edit legitimately carries
// one unbalanced tag pair at its boundary. It does not detect
// misnesting; use StrictParse for that.
type TagBalance struct{}

func (TagBalance) Check(r io.Reader) error {
	var open, closed, selfClosing int

	br := bufio.NewReaderSize(r, copyBufferSize)
	for {
		if err := skipTo(br, '<'); err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrap(err, "reading content")
		}
		b, err := br.ReadByte()
		if err != nil {
			break
		}
		switch {
		case b == '/':
			closed++
			if err := skipTo(br, '>'); err != nil {
				break
			}
		case b == '!' || b == '?':
			// comments, doctype, declarations: not element tags
			if err := skipTo(br, '>'); err != nil {
				break
			}
		default:
			last := b
			for {
				c, err := br.ReadByte()
				if err != nil {
					return balanced(open, closed, selfClosing)
				}
				if c == '>' {
					break
				}
				last = c
			}
			if last == '/' {
				selfClosing++
			} else {
				open++
			}
		}
	}
	return balanced(open, closed, selfClosing)
}

func balanced(open, closed, selfClosing int) error {
	// open excludes self-closing tags, which need no closing partner
	skew := open - closed
	if skew < -1 || skew > 1 {
		return errors.Errorf("unbalanced tags: %d opening, %d closing, %d self-closing",
			open, closed, selfClosing)
	}
	return nil
}

func skipTo(br *bufio.Reader, delim byte) error {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		if b == delim {
			return nil
		}
	}
}

// StrictParse fully parses the content and requires a root element.
// Slower than TagBalance but rejects misnesting as well as imbalance.
type StrictParse struct{}

var xpRoot = xpath.MustCompile(`/*`)

func (StrictParse) Check(r io.Reader) error {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return errors.Wrap(err, "parsing patched content")
	}
	if xmlquery.QuerySelector(doc, xpRoot) == nil {
		return errors.New("patched content has no root element")
	}
	return nil
}
