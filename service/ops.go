package service

import (
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/andaru/largexml/finding"
	"github.com/andaru/largexml/locate"
	"github.com/andaru/largexml/patch"
	"github.com/andaru/largexml/zone"
)

// ValidateRequest asks for a full analysis of one document.
type ValidateRequest struct {
	FilePath   string `json:"filePath"`
	SchemaPath string `json:"schemaPath,omitempty"`
}

// ValidateResponse reports the outcome of a validation run.
type ValidateResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	Findings      []*finding.Finding `json:"findings"`
	ErrorCount    int                `json:"errorCount"`
	WarningCount  int                `json:"warningCount"`
	ElapsedMillis int64              `json:"elapsedMillis"`
	FileSizeBytes int64              `json:"fileSizeBytes"`
}

// Validate runs the schema and structural passes over a document.
// Findings come back without zone content; use ExtractZones or
// Navigate to enrich selected ones.
func (s *Service) Validate(req ValidateRequest) ValidateResponse {
	glog.V(1).Infof("validate %s (schema %q)", req.FilePath, req.SchemaPath)
	r := s.orchestrator.Run(req.FilePath, req.SchemaPath)
	if r.FileSize > 0 {
		s.rememberValidation(req.FilePath, r.Stamp)
	}
	return ValidateResponse{
		Success:       r.Success,
		Message:       r.Summary,
		Findings:      r.Findings,
		ErrorCount:    r.ErrorCount(),
		WarningCount:  r.WarningCount(),
		ElapsedMillis: r.Elapsed.Milliseconds(),
		FileSizeBytes: r.FileSize,
	}
}

// ZonesRequest selects findings to enrich with zone excerpts.
type ZonesRequest struct {
	FilePath string             `json:"filePath"`
	Findings []*finding.Finding `json:"findings"`
	// SelectedIndexes are positions in Findings to enrich. Empty
	// selects every finding.
	SelectedIndexes []int `json:"selectedIndexes"`
}

// ZonesResponse carries the same findings, selected ones enriched.
type ZonesResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Findings []*finding.Finding `json:"findings"`
}

// ExtractZones attaches zone excerpts to the selected findings.
// Extraction runs concurrently per finding; a finding whose zone
// cannot be read is returned unenriched rather than failing the
// request.
func (s *Service) ExtractZones(req ZonesRequest) ZonesResponse {
	indexes := req.SelectedIndexes
	if len(indexes) == 0 {
		indexes = make([]int, len(req.Findings))
		for i := range req.Findings {
			indexes[i] = i
		}
	}

	var g errgroup.Group
	enriched := 0
	seen := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(req.Findings) || seen[idx] {
			continue
		}
		seen[idx] = true
		f := req.Findings[idx]
		if f == nil || f.Line < 1 {
			continue
		}
		enriched++
		g.Go(func() error {
			z := s.extractor.ExtractWithParent(req.FilePath, f.Line, f.TagName)
			if !z.IsEmpty() {
				f.SetZone(z.Content, z.StartLine, z.EndLine)
			}
			return nil
		})
	}
	_ = g.Wait()

	return ZonesResponse{
		Success:  true,
		Message:  fmt.Sprintf("extracted zones for %d finding(s)", enriched),
		Findings: req.Findings,
	}
}

// ZoneAtRequest asks for an excerpt around an approximate byte offset,
// for callers holding a patch offset rather than a line number.
type ZoneAtRequest struct {
	FilePath string `json:"filePath"`
	Offset   int64  `json:"offset"`
}

// ZoneAtResponse carries the extracted excerpt.
type ZoneAtResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Zone    zone.Zone `json:"zone"`
}

// ZoneAt extracts a byte-window excerpt around offset, bounded by the
// configured zone byte budget.
func (s *Service) ZoneAt(req ZoneAtRequest) ZoneAtResponse {
	z := s.extractor.ExtractAt(req.FilePath, req.Offset, s.cfg.Zone.ByteBudget)
	if z.IsEmpty() {
		return ZoneAtResponse{Success: false, Message: "no content at that offset"}
	}
	return ZoneAtResponse{
		Success: true,
		Message: fmt.Sprintf("extracted %d line(s) around offset %d", z.LineCount, req.Offset),
		Zone:    z,
	}
}

// NavigateRequest asks for full enrichment of one finding.
type NavigateRequest struct {
	FilePath string           `json:"filePath"`
	Finding  *finding.Finding `json:"finding"`
}

// NavigateResponse returns the finding with zone and precise range.
type NavigateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Finding *finding.Finding `json:"finding"`
}

// Navigate enriches one finding with a zone excerpt and, when a
// refinement strategy applies, a precise range. Both steps are
// best-effort: the response succeeds with whatever could be computed.
func (s *Service) Navigate(req NavigateRequest) NavigateResponse {
	if req.Finding == nil {
		return NavigateResponse{Success: false, Message: "no finding supplied"}
	}
	f := req.Finding

	if r, ok := locate.Refine(req.FilePath, f); ok {
		f.SetPrecise(r)
	}
	if f.Line >= 1 {
		z := s.extractor.Extract(req.FilePath, f.Line)
		if !z.IsEmpty() {
			f.SetZone(z.Content, z.StartLine, z.EndLine)
		}
	}
	return NavigateResponse{Success: true, Message: "finding enriched", Finding: f}
}

// FragmentRequest replaces a line range with new fragment text.
type FragmentRequest struct {
	FilePath        string `json:"filePath"`
	ReplacementText string `json:"replacementText"`
	StartLine       int    `json:"startLine"`
	EndLine         int    `json:"endLine"`
}

// FragmentResponse reports whether the fragment patch was written.
type FragmentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PatchFragment applies a line-range fragment replacement, gated by
// the structural sanity checker. A rejected fragment leaves the file
// untouched.
func (s *Service) PatchFragment(req FragmentRequest) FragmentResponse {
	glog.V(1).Infof("patch fragment %s lines [%d, %d]", req.FilePath, req.StartLine, req.EndLine)
	err := s.patcher.PatchLines(req.FilePath, req.ReplacementText, req.StartLine, req.EndLine)
	if err != nil {
		return FragmentResponse{Success: false, Message: err.Error()}
	}
	s.noteSelfWrite(req.FilePath)
	return FragmentResponse{
		Success: true,
		Message: fmt.Sprintf("replaced lines %d-%d", req.StartLine, req.EndLine),
	}
}

// FixRequest asks for the automatic single-line fix of one finding.
type FixRequest struct {
	FilePath string           `json:"filePath"`
	Finding  *finding.Finding `json:"finding"`
}

// FixResponse reports whether the fix was written.
type FixResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AutoFix closes the unclosed element reported by the finding when the
// whole fix fits on the opening line. Other finding kinds have no
// automatic fix.
func (s *Service) AutoFix(req FixRequest) FixResponse {
	f := req.Finding
	if f == nil {
		return FixResponse{Success: false, Message: "no finding supplied"}
	}
	if f.Kind != finding.KindUnclosedTag || f.TagName == "" {
		return FixResponse{Success: false, Message: "finding has no automatic fix"}
	}
	if err := s.patcher.AutoFix(req.FilePath, f.TagName, f.Line); err != nil {
		return FixResponse{Success: false, Message: err.Error()}
	}
	s.noteSelfWrite(req.FilePath)
	glog.V(1).Infof("auto-fixed <%s> at %s:%d", f.TagName, req.FilePath, f.Line)
	return FixResponse{
		Success: true,
		Message: fmt.Sprintf("closed <%s> on line %d", f.TagName, f.Line),
	}
}

// RecordRequest records one pending offset patch.
type RecordRequest struct {
	FilePath        string     `json:"filePath"`
	StartOffset     int64      `json:"startOffset"`
	EndOffset       int64      `json:"endOffset"`
	ReplacementText string     `json:"replacementText"`
	Type            patch.Type `json:"type"`
	FragmentID      string     `json:"fragmentId"`
}

// RecordResponse reports the recording outcome.
type RecordResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PendingCount int    `json:"pendingCount"`
	EvictedCount int    `json:"evictedCount"`
}

// RecordPatch adds a patch to the file's pending set, evicting any
// previously recorded patches its range overlaps.
func (s *Service) RecordPatch(req RecordRequest) RecordResponse {
	p, err := patch.New(req.StartOffset, req.EndOffset, req.ReplacementText, req.Type, req.FragmentID)
	if err != nil {
		return RecordResponse{Success: false, Message: err.Error()}
	}
	m, err := s.manager(req.FilePath)
	if err != nil {
		return RecordResponse{Success: false, Message: err.Error()}
	}
	evicted, err := m.Add(p)
	if err != nil {
		return RecordResponse{Success: false, Message: err.Error()}
	}
	glog.V(1).Infof("recorded %s against %s (%d evicted)", p, req.FilePath, len(evicted))
	return RecordResponse{
		Success:      true,
		Message:      fmt.Sprintf("patch recorded, %d pending", m.Len()),
		PendingCount: m.Len(),
		EvictedCount: len(evicted),
	}
}

// SaveRequest applies the pending patch set. An empty OutputPath
// saves in place.
type SaveRequest struct {
	FilePath   string `json:"filePath"`
	OutputPath string `json:"outputPath,omitempty"`
}

// SaveResponse reports the save outcome.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Save applies every pending patch for the file in one streamed pass.
// A file modified since its last validation is rejected with the
// pending set retained; revalidate and retry.
func (s *Service) Save(req SaveRequest) SaveResponse {
	out := req.OutputPath
	if out == "" {
		out = req.FilePath
	}
	if s.stale(req.FilePath) {
		return SaveResponse{
			Success: false,
			Message: "file changed since last validation; validate again before saving",
		}
	}
	m, err := s.manager(req.FilePath)
	if err != nil {
		return SaveResponse{Success: false, Message: err.Error()}
	}
	n := m.Len()
	if err := s.saver.Save(canonical(req.FilePath), canonical(out), m); err != nil {
		return SaveResponse{Success: false, Message: err.Error()}
	}
	s.noteSelfWrite(out)
	glog.V(1).Infof("saved %s with %d patch(es) applied", out, n)
	return SaveResponse{
		Success: true,
		Message: fmt.Sprintf("saved with %d patch(es) applied", n),
	}
}
