/*
Package finding provides the finding model shared by every analysis pass.

A Finding is one problem discovered in an XML document: its message, a
coarse 1-based line position as first reported by the streaming scanner,
a Kind classifying what went wrong, and optional enrichments (the
offending tag name, a precise start/end range, a textual zone excerpt
and a fix suggestion) attached later on request.

The Collector is the append-only, concurrency-safe sink the structural
scanner and the schema validator both write into. Snapshot returns
copies decoupled from further mutation, so a validation result remains
stable while individual findings are enriched.
*/
package finding
