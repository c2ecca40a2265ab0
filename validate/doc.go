// Package validate runs the full analysis of one document: the XSD
// schema pass when a schema is supplied, then the streaming structural
// scan, both feeding a single collector. The outcome is a Result value
// summarizing findings, timing and file size; the orchestrator itself
// never returns a Go error for problems found in the document.
package validate
