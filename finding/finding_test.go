package finding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMapping(t *testing.T) {
	for _, tc := range []struct {
		kind     Kind
		code     Code
		severity Severity
	}{
		{KindUnclosedTag, CodeStructure, SeverityError},
		{KindMismatchedTag, CodeStructure, SeverityError},
		{KindStrayClosingTag, CodeStructure, SeverityError},
		{KindMalformedTag, CodeSyntax, SeverityError},
		{KindSchemaViolation, CodeValidationError, SeverityError},
		{KindSchemaWarning, CodeValidationWarning, SeverityWarning},
		{KindFatalIO, CodeFatalParse, SeverityError},
		{KindFatalSchema, CodeFatalValidation, SeverityError},
	} {
		t.Run(tc.kind.String(), func(t *testing.T) {
			ck := assert.New(t)
			ck.Equal(tc.code, tc.kind.Code())
			ck.Equal(tc.severity, tc.kind.Severity())
		})
	}
}

func TestCodeText(t *testing.T) {
	for _, tc := range []struct {
		code Code
		text string
	}{
		{CodeStructure, "STRUCTURE"},
		{CodeSyntax, "SYNTAX"},
		{CodeValidationError, "VALIDATION_ERROR"},
		{CodeValidationWarning, "VALIDATION_WARNING"},
		{CodeFatalParse, "FATAL_PARSE"},
		{CodeFatalSyntax, "FATAL_SYNTAX"},
		{CodeFatalValidation, "FATAL_VALIDATION"},
	} {
		t.Run(tc.text, func(t *testing.T) {
			ck := assert.New(t)
			b, err := tc.code.MarshalText()
			ck.NoError(err)
			ck.Equal(tc.text, string(b))
			var got Code
			ck.NoError(got.UnmarshalText(b))
			ck.Equal(tc.code, got)
		})
	}
	var c Code
	assert.Error(t, c.UnmarshalText([]byte("NOT_A_CODE")))
}

func TestSeverityText(t *testing.T) {
	ck := assert.New(t)
	for _, tc := range []struct {
		severity Severity
		text     string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityHint, "hint"},
	} {
		b, err := tc.severity.MarshalText()
		ck.NoError(err)
		ck.Equal(tc.text, string(b))
		var got Severity
		ck.NoError(got.UnmarshalText(b))
		ck.Equal(tc.severity, got)
	}
}

func TestFindingEnrichment(t *testing.T) {
	ck := assert.New(t)
	f := New("tag <order> is never closed", 12, KindUnclosedTag,
		WithTagName("order"), WithColumn(5))
	ck.Equal("order", f.TagName)
	ck.Equal(5, f.Column)
	ck.False(f.ZoneExtracted())
	ck.Nil(f.Precise)

	f.SetPrecise(Range{Start: Position{12, 5}, End: Position{12, 12}})
	ck.NotNil(f.Precise)

	f.SetZone("<order>\n</order>", 10, 14)
	ck.True(f.ZoneExtracted())
	ck.Equal(10, f.ZoneStartLine)

	// clones must be decoupled
	c := f.Clone()
	c.SetZone("other", 1, 2)
	c.Precise.Start.Line = 99
	ck.Equal(12, f.Precise.Start.Line)
	ck.Equal(10, f.ZoneStartLine)
}

func TestFindingJSONCarriesDerivedFields(t *testing.T) {
	ck := assert.New(t)
	f := New("unexpected closing tag </b>", 7, KindMismatchedTag, WithTagName("b"))

	b, err := json.Marshal(f)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	ck.Equal("error", m["severity"])
	ck.Equal("STRUCTURE", m["code"])
	ck.Equal("b", m["tagName"])
	ck.Equal(float64(7), m["line"])
	// unattached enrichments stay off the wire
	ck.NotContains(m, "preciseRange")
	ck.NotContains(m, "zoneContent")
}
