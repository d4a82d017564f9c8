// Package segment cuts task segments out of long session recordings.
//
// A segment plan is a delimited text file with one row per segment and the
// columns Path, Start, End and Task. Each row names a recording relative to a
// base directory and a time window in seconds. The cut is a stream copy via
// ffmpeg into a sibling directory where the "original" path component is
// replaced by the configured output folder.
//
// Rows whose input is missing, and rows where ffmpeg fails, are reported and
// skipped. Nothing in a plan stops the remaining rows from being processed.
package segment
