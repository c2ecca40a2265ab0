package validate

import (
	"fmt"
	"os"
	"time"

	"github.com/andaru/largexml/finding"
	"github.com/andaru/largexml/scan"
	"github.com/andaru/largexml/schema"
	"github.com/andaru/largexml/track"
)

// Result is the outcome of analyzing one document.
type Result struct {
	// Success is true when no error-severity finding was produced.
	// Warnings and hints do not fail a document.
	Success bool
	// SchemaValid is true when a schema pass ran and found no
	// violations. It is true when no schema was supplied.
	SchemaValid bool
	// Findings holds every finding from both passes, schema pass
	// first, without zone content attached.
	Findings []*finding.Finding
	// Stamp captures the file's size and modification time as of this
	// run, for stale-save detection.
	Stamp    track.Stamp
	FileSize int64
	Elapsed  time.Duration
	Summary  string
}

// ErrorCount returns the number of error-severity findings.
func (r *Result) ErrorCount() int { return r.countSeverity(finding.SeverityError) }

// WarningCount returns the number of warning-severity findings.
func (r *Result) WarningCount() int { return r.countSeverity(finding.SeverityWarning) }

func (r *Result) countSeverity(sev finding.Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity() == sev {
			n++
		}
	}
	return n
}

// Orchestrator composes the schema and structural passes.
type Orchestrator struct {
	scanner *scan.Scanner
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScanner replaces the default structural scanner.
func WithScanner(s *scan.Scanner) Option {
	return func(o *Orchestrator) { o.scanner = s }
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{scanner: scan.New()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run analyzes the document at xmlPath. An empty xsdPath skips the
// schema pass; a schema that fails to load degrades the run to
// structure-only with a fatal schema finding rather than aborting.
//
// A missing or unreadable input file yields a failure Result with one
// fatal finding. Repeated runs over unchanged inputs produce identical
// finding lists.
func (o *Orchestrator) Run(xmlPath, xsdPath string) *Result {
	start := time.Now()
	r := &Result{SchemaValid: true}

	fi, err := os.Stat(xmlPath)
	if err != nil {
		r.Findings = []*finding.Finding{
			finding.New(fmt.Sprintf("cannot read file: %v", err), 0, finding.KindFatalIO),
		}
		r.Elapsed = time.Since(start)
		r.Summary = summarize(r)
		return r
	}
	r.FileSize = fi.Size()
	r.Stamp = track.NewStamp(fi)

	sink := finding.NewCollector()
	if xsdPath != "" {
		r.SchemaValid = o.schemaPass(xmlPath, xsdPath, sink)
	}
	o.structuralPass(xmlPath, sink)

	r.Findings = sink.Snapshot()
	r.Success = r.ErrorCount() == 0
	r.Elapsed = time.Since(start)
	r.Summary = summarize(r)
	return r
}

func (o *Orchestrator) schemaPass(xmlPath, xsdPath string, sink *finding.Collector) bool {
	v, err := schema.NewValidator(xsdPath)
	if err != nil {
		sink.Add(fmt.Sprintf("schema unavailable, falling back to structural checks: %v", err),
			0, finding.KindFatalSchema)
		return false
	}
	return v.Validate(xmlPath, sink)
}

func (o *Orchestrator) structuralPass(xmlPath string, sink *finding.Collector) {
	f, err := os.Open(xmlPath)
	if err != nil {
		sink.Add(fmt.Sprintf("cannot read file: %v", err), 0, finding.KindFatalIO)
		return
	}
	defer f.Close()
	o.scanner.Scan(f, sink)
}

func summarize(r *Result) string {
	if r.Success {
		if n := r.WarningCount(); n > 0 {
			return fmt.Sprintf("document is valid with %d warning(s)", n)
		}
		return "document is valid"
	}
	return fmt.Sprintf("found %d error(s) and %d warning(s)",
		r.ErrorCount(), r.WarningCount())
}
