// Package schema validates documents against an XSD schema,
// translating each violation into a finding on the shared collector.
//
// Validation is tolerant of structural damage: the validator reports
// what it can and never aborts the surrounding analysis. A schema that
// fails to load or compile surfaces as a single fatal finding rather
// than an error return, so callers degrade to structure-only checking.
package schema
