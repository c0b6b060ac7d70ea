// Package repositories implements SQLite persistence for local play and upload history.
//
// Key Implementations:
//   - [PlayRepository] : streams handed to the audio sink, with per-song play counts
//   - [UploadRepository] : upload attempts and their outcome
//
// Both satisfy the recorder interfaces of the tasks package, so history is written as a side
// effect of playback and uploads.
//
// Sequence numbers provide stable insertion ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
