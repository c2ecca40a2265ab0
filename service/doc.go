/*
Package service exposes the engine as request/response operations for
an editor integration: validate a document, enrich findings with zones
and precise ranges on demand, record offset patches, and apply them.

Every operation returns a well-formed response carrying Success and
Message, even when the underlying work failed; Go errors escape only
when the service itself cannot operate. All dependencies are injected
through New. The service keeps one patch manager per file, created
lazily, and tracks a validation stamp per file so a save against a
file modified since its last validation is rejected instead of
corrupting it.
*/
package service
