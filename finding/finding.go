package finding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a finding. It is the closed set of problem categories
// produced by the analysis passes; consumers switch over Kind rather
// than matching message text.
type Kind int

const (
	// KindUnclosedTag indicates an element was opened but never closed.
	KindUnclosedTag Kind = iota
	// KindMismatchedTag indicates a closing tag did not match the open element.
	KindMismatchedTag
	// KindStrayClosingTag indicates a closing tag with no matching open element.
	KindStrayClosingTag
	// KindMalformedTag indicates markup that could not be read as a tag.
	KindMalformedTag
	// KindSchemaViolation indicates the document violates its XSD schema.
	KindSchemaViolation
	// KindSchemaWarning indicates a non-fatal schema conformance concern.
	KindSchemaWarning
	// KindFatalIO indicates an unrecoverable read failure ended a pass early.
	KindFatalIO
	// KindFatalSchema indicates the schema itself could not be loaded.
	KindFatalSchema
)

func (k Kind) String() string {
	switch k {
	case KindUnclosedTag:
		return "unclosed-tag"
	case KindMismatchedTag:
		return "mismatched-tag"
	case KindStrayClosingTag:
		return "stray-closing-tag"
	case KindMalformedTag:
		return "malformed-tag"
	case KindSchemaViolation:
		return "schema-violation"
	case KindSchemaWarning:
		return "schema-warning"
	case KindFatalIO:
		return "fatal-io"
	case KindFatalSchema:
		return "fatal-schema"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code returns the wire type/code vocabulary value for the Kind.
func (k Kind) Code() Code {
	switch k {
	case KindUnclosedTag, KindMismatchedTag, KindStrayClosingTag:
		return CodeStructure
	case KindMalformedTag:
		return CodeSyntax
	case KindSchemaViolation:
		return CodeValidationError
	case KindSchemaWarning:
		return CodeValidationWarning
	case KindFatalIO:
		return CodeFatalParse
	case KindFatalSchema:
		return CodeFatalValidation
	default:
		return CodeSyntax
	}
}

// Severity returns the severity level for the Kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindSchemaWarning:
		return SeverityWarning
	case KindUnclosedTag, KindMismatchedTag, KindStrayClosingTag,
		KindMalformedTag, KindSchemaViolation, KindFatalIO, KindFatalSchema:
		return SeverityError
	default:
		return SeverityError
	}
}

// Severity represents a finding severity level.
type Severity int

const (
	// SeverityError indicates "error" level
	SeverityError Severity = iota
	// SeverityWarning indicates "warning" level
	SeverityWarning
	// SeverityInfo indicates "info" level
	SeverityInfo
	// SeverityHint indicates "hint" level
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "hint":
		*s = SeverityHint
	default:
		return errors.New("unknown value")
	}
	return nil
}

// Code represents the finding type/code vocabulary exposed to callers.
type Code int

const (
	// CodeStructure is a structural well-formedness problem.
	CodeStructure Code = iota
	// CodeSyntax is a markup syntax problem.
	CodeSyntax
	// CodeValidationError is a schema conformance error.
	CodeValidationError
	// CodeValidationWarning is a schema conformance warning.
	CodeValidationWarning
	// CodeFatalParse is an unrecoverable parse/read failure.
	CodeFatalParse
	// CodeFatalSyntax is an unrecoverable syntax failure.
	CodeFatalSyntax
	// CodeFatalValidation is an unrecoverable schema failure.
	CodeFatalValidation
)

func (c Code) String() string {
	switch c {
	case CodeStructure:
		return "STRUCTURE"
	case CodeSyntax:
		return "SYNTAX"
	case CodeValidationError:
		return "VALIDATION_ERROR"
	case CodeValidationWarning:
		return "VALIDATION_WARNING"
	case CodeFatalParse:
		return "FATAL_PARSE"
	case CodeFatalSyntax:
		return "FATAL_SYNTAX"
	case CodeFatalValidation:
		return "FATAL_VALIDATION"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

func (c Code) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Code) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "STRUCTURE":
		*c = CodeStructure
	case "SYNTAX":
		*c = CodeSyntax
	case "VALIDATION_ERROR":
		*c = CodeValidationError
	case "VALIDATION_WARNING":
		*c = CodeValidationWarning
	case "FATAL_PARSE":
		*c = CodeFatalParse
	case "FATAL_SYNTAX":
		*c = CodeFatalSyntax
	case "FATAL_VALIDATION":
		*c = CodeFatalValidation
	default:
		return errors.New("unknown value")
	}
	return nil
}

// Position is a 1-based line and column location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is an exact start/end span narrowing a coarse position to the
// offending token. End is exclusive of the final character's column+1
// convention used by editors.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the range carries no position at all.
func (r Range) IsZero() bool { return r == Range{} }

// Finding is one problem discovered in a document.
//
// Line and Column are the coarse position reported during the scan.
// Precise, zone and suggestion fields are optional enrichments attached
// by later, explicit requests; Snapshot copies returned by a Collector
// are decoupled from those mutations.
type Finding struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`

	Kind    Kind   `json:"-"`
	TagName string `json:"tagName,omitempty"`

	Precise    *Range `json:"preciseRange,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`

	ZoneContent   string `json:"zoneContent,omitempty"`
	ZoneStartLine int    `json:"zoneStartLine,omitempty"`
	ZoneEndLine   int    `json:"zoneEndLine,omitempty"`
	zoneExtracted bool
}

// New creates a Finding at the given coarse line.
func New(message string, line int, kind Kind, opts ...Option) *Finding {
	f := &Finding{Message: message, Line: line, Kind: kind}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Code returns the finding's wire code, derived from its Kind.
func (f *Finding) Code() Code { return f.Kind.Code() }

// Severity returns the finding's severity, derived from its Kind.
func (f *Finding) Severity() Severity { return f.Kind.Severity() }

// SetPrecise attaches an exact range to the finding.
func (f *Finding) SetPrecise(r Range) {
	if !r.IsZero() {
		f.Precise = &Range{Start: r.Start, End: r.End}
	}
}

// SetZone attaches a zone excerpt to the finding.
func (f *Finding) SetZone(content string, startLine, endLine int) {
	f.ZoneContent = content
	f.ZoneStartLine = startLine
	f.ZoneEndLine = endLine
	f.zoneExtracted = true
}

// ZoneExtracted reports whether a zone has been attached.
func (f *Finding) ZoneExtracted() bool { return f.zoneExtracted }

// Clone returns a copy of the finding decoupled from the original.
func (f *Finding) Clone() *Finding {
	c := *f
	if f.Precise != nil {
		r := *f.Precise
		c.Precise = &r
	}
	return &c
}

// findingJSON adds the derived severity and code to the wire form.
type findingJSON struct {
	Message       string   `json:"message"`
	Line          int      `json:"line"`
	Column        int      `json:"column,omitempty"`
	Severity      Severity `json:"severity"`
	Code          Code     `json:"code"`
	TagName       string   `json:"tagName,omitempty"`
	Precise       *Range   `json:"preciseRange,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
	ZoneContent   string   `json:"zoneContent,omitempty"`
	ZoneStartLine int      `json:"zoneStartLine,omitempty"`
	ZoneEndLine   int      `json:"zoneEndLine,omitempty"`
}

func (f *Finding) MarshalJSON() ([]byte, error) {
	return json.Marshal(findingJSON{
		Message:       f.Message,
		Line:          f.Line,
		Column:        f.Column,
		Severity:      f.Severity(),
		Code:          f.Code(),
		TagName:       f.TagName,
		Precise:       f.Precise,
		Suggestion:    f.Suggestion,
		ZoneContent:   f.ZoneContent,
		ZoneStartLine: f.ZoneStartLine,
		ZoneEndLine:   f.ZoneEndLine,
	})
}

func (f *Finding) String() string {
	s := fmt.Sprintf("%s line:%d %s", f.Code(), f.Line, f.Message)
	if f.TagName != "" {
		s += " tag:" + f.TagName
	}
	return s
}
