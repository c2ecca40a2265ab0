// Package track detects when a file changed out from under a pending
// patch set. A Stamp captured at validation time records size and
// modification time; comparing stamps before a save catches most
// concurrent modifications cheaply. The Tracker supplements stamps
// with filesystem notifications, bumping a per-path generation counter
// on every observed write so even same-size, same-second rewrites are
// caught while the process runs.
package track
