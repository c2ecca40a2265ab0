/*
Package locate upgrades coarse, line-only findings to exact ranges.

The streaming scanner reports findings with only a 1-based line number.
Refine re-reads just the region around that line, applying a strategy
keyed by the finding's kind, and returns the exact start/end span of
the offending tag. Refinement is best-effort: when no occurrence
matches, the caller keeps the coarse position — this step may decline
to improve precision but never fails a request.
*/
package locate
