/*
Package zone extracts bounded excerpts from large XML files.

An extraction reads only the lines (or bytes) needed for the requested
window and stops as soon as the window closes, so excerpting from a
multi-gigabyte file costs no more than reading up to the window's end.
Extraction never fails: any I/O problem yields the Empty zone sentinel.
*/
package zone
