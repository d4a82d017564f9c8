// Package history journals extraction runs and per-recording outcomes in
// SQLite.
//
// The Store implements extraction.Recorder: the batch controller opens a run,
// reports each (recording, family) outcome, and closes the run with its
// summary. The journal exists for triage (`voxtract history`) and is never
// consulted to decide whether a recording needs extraction; artifact files
// remain the only completion marker.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package history
