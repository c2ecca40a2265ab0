package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andaru/largexml/finding"
)

const catalogXSD = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="catalog">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="book" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="title" type="xs:string"/>
              <xs:element name="price" type="xs:decimal"/>
            </xs:sequence>
            <xs:attribute name="id" type="xs:string" use="required"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateConforming(t *testing.T) {
	dir := t.TempDir()
	xsdPath := writeFile(t, dir, "catalog.xsd", catalogXSD)
	docPath := writeFile(t, dir, "ok.xml", `<catalog>
  <book id="b1">
    <title>First</title>
    <price>9.99</price>
  </book>
</catalog>`)

	v, err := NewValidator(xsdPath)
	require.NoError(t, err)

	sink := finding.NewCollector()
	assert.True(t, v.Validate(docPath, sink))
	assert.False(t, sink.HasFindings())
}

func TestValidateViolations(t *testing.T) {
	ck := assert.New(t)
	dir := t.TempDir()
	xsdPath := writeFile(t, dir, "catalog.xsd", catalogXSD)
	// missing required attribute, bad decimal, undeclared element
	docPath := writeFile(t, dir, "bad.xml", `<catalog>
  <book>
    <title>First</title>
    <price>not-a-number</price>
    <isbn>123</isbn>
  </book>
</catalog>`)

	v, err := NewValidator(xsdPath)
	require.NoError(t, err)

	sink := finding.NewCollector()
	ck.False(v.Validate(docPath, sink))
	findings := sink.Snapshot()
	require.NotEmpty(t, findings)
	for _, f := range findings {
		ck.Equal(finding.KindSchemaViolation, f.Kind)
		ck.Equal(finding.CodeValidationError, f.Code())
		ck.NotEmpty(f.Message)
	}
}

func TestNewValidatorBadSchema(t *testing.T) {
	dir := t.TempDir()
	xsdPath := writeFile(t, dir, "broken.xsd", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element`)
	_, err := NewValidator(xsdPath)
	assert.Error(t, err)

	_, err = NewValidator(filepath.Join(dir, "missing.xsd"))
	assert.Error(t, err)
}

func TestTagFromPath(t *testing.T) {
	ck := assert.New(t)
	ck.Equal("price", tagFromPath("/catalog/book[2]/price"))
	ck.Equal("book", tagFromPath("/catalog/book[10]"))
	ck.Equal("title", tagFromPath("ns:title"))
	ck.Equal("", tagFromPath(""))
}
