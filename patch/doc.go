/*
Package patch records pending edits against a single file.

A Patch is an immutable instruction to replace one byte range of the
original file with new text. Offsets always address the original file
on disk, never a previously patched intermediate, which is what makes
applying a whole set in one forward pass well-defined even when
replacement text changes length.

The Manager owns a file's pending set, keyed by fragment identity and
kept pairwise non-overlapping: adding a patch whose range overlaps
retained patches evicts every overlapped patch wholesale (last writer
wins, no partial splicing). With a Store configured the set is durable
and survives a process restart.
*/
package patch
