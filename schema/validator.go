package schema

import (
	"fmt"
	"strings"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/xsderrors"
	"github.com/pkg/errors"

	"github.com/andaru/largexml/finding"
)

// Validator validates XML documents against a compiled XSD schema.
type Validator struct {
	schemaPath string
	schema     *xsd.Schema
}

// NewValidator loads and compiles the schema at schemaPath.
func NewValidator(schemaPath string) (*Validator, error) {
	s, err := xsd.LoadFile(schemaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading schema %s", schemaPath)
	}
	return &Validator{schemaPath: schemaPath, schema: s}, nil
}

// SchemaPath returns the path the schema was compiled from.
func (v *Validator) SchemaPath() string { return v.schemaPath }

// Validate validates the document at path, adding one finding per
// violation to sink. It returns true when the document conforms.
//
// Violations never abort the run; a document the validator cannot
// process at all yields a single fatal finding instead of an error.
func (v *Validator) Validate(path string, sink *finding.Collector) bool {
	err := v.schema.ValidateFile(path)
	if err == nil {
		return true
	}

	violations, ok := xsderrors.AsValidations(err)
	if !ok {
		sink.Add(fmt.Sprintf("schema validation failed: %v", err), 0, finding.KindFatalSchema)
		return false
	}
	for _, violation := range violations {
		kind := finding.KindSchemaViolation
		if isWarning(violation) {
			kind = finding.KindSchemaWarning
		}
		opts := []finding.Option{finding.WithColumn(violation.Column)}
		if tag := tagFromPath(violation.Path); tag != "" {
			opts = append(opts, finding.WithTagName(tag))
		}
		sink.Add(violationMessage(violation), violation.Line, kind, opts...)
	}
	return false
}

// isWarning downgrades violations that do not make the document
// unusable, such as unrecognized content in lax wildcard positions.
func isWarning(v xsderrors.Validation) bool {
	switch v.Code {
	case string(xsderrors.ErrWildcardNotDeclared):
		return true
	}
	return false
}

func violationMessage(v xsderrors.Validation) string {
	var b strings.Builder
	b.WriteString(v.Message)
	if len(v.Expected) > 0 {
		fmt.Fprintf(&b, " (expected: %s)", strings.Join(v.Expected, ", "))
	}
	if v.Actual != "" {
		fmt.Fprintf(&b, " (actual: %s)", v.Actual)
	}
	if v.Path != "" {
		fmt.Fprintf(&b, " at %s", v.Path)
	}
	return b.String()
}

// tagFromPath extracts the last element name from an instance path
// such as "/catalog/book[2]/price".
func tagFromPath(path string) string {
	if path == "" {
		return ""
	}
	last := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last = path[i+1:]
	}
	if i := strings.IndexByte(last, '['); i >= 0 {
		last = last[:i]
	}
	if i := strings.IndexByte(last, ':'); i >= 0 {
		last = last[i+1:]
	}
	return last
}
