/*
Package rewrite applies recorded edits back to the file on disk.

Two paths exist. The Saver applies a whole pending patch set in one
streamed forward pass, splicing replacement text at original-file byte
offsets without ever holding the document in memory; same-path saves go
through a sibling temp file and an atomic rename. The Patcher replaces
an inclusive line range with new fragment text, gated by a structural
sanity Checker so a bad fragment cannot corrupt the document.

Both paths keep a .backup copy of the pre-save content next to the
target before replacing it.
*/
package rewrite
