package finding

import "sync"

// Collector accumulates findings from one or more analysis passes.
//
// It is safe for concurrent use: the structural scanner and the schema
// validator may both produce into one Collector.
type Collector struct {
	mu       sync.Mutex
	findings []*Finding
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Add creates a finding and appends it to the collector.
func (c *Collector) Add(message string, line int, kind Kind, opts ...Option) {
	c.AddFinding(New(message, line, kind, opts...))
}

// AddFinding appends f to the collector. A nil finding is ignored.
func (c *Collector) AddFinding(f *Finding) {
	if f == nil {
		return
	}
	c.mu.Lock()
	c.findings = append(c.findings, f)
	c.mu.Unlock()
}

// Snapshot returns copies of all findings in discovery order. The
// returned findings are decoupled from any later mutation of the
// collector or of the originals.
func (c *Collector) Snapshot() []*Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Finding, len(c.findings))
	for i, f := range c.findings {
		out[i] = f.Clone()
	}
	return out
}

// Clear discards all findings, resetting the collector between runs.
func (c *Collector) Clear() {
	c.mu.Lock()
	c.findings = c.findings[:0]
	c.mu.Unlock()
}

// Len returns the number of findings collected.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.findings)
}

// HasFindings reports whether any finding has been collected.
func (c *Collector) HasFindings() bool { return c.Len() > 0 }
