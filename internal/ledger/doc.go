// Package ledger records per-recording extraction failures for one batch run.
//
// The ledger is a plain text file with one "{family}: {recording}" line per
// failure. It is removed when a batch starts and only created on the first
// failure, so a missing file after a run means every pair succeeded. A Ledger
// value is safe for concurrent use.
package ledger
