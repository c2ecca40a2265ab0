/*
Package largexml is a set of libraries for analyzing and patching very
large XML documents without loading them into memory.

Doing the heavy lifting of tolerant structural scanning, optional XSD
schema validation, precise error location and bounded excerpt (zone)
extraction, these libraries allow editor-integration services to surface
every problem in files too large to parse conventionally.

Edits are recorded as immutable byte-offset patches against the original
file. The patch package maintains a durable, non-overlapping pending set
per file, and the rewrite package applies the sorted set in a single
streamed pass, writing atomically and byte-exactly even when replacement
text changes length.

Findings start with coarse, line-only positions as reported by the
streaming pass. The locate package narrows a finding to an exact
start/end range by re-reading only the relevant region, while the zone
package produces a bounded excerpt around a location for human review.

See the service sub-directory for the request/response operations a
host process (language-server style) composes these libraries with.
*/
package largexml
