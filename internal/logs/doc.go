// Package logs reads the voxtract log file for the `voxtract logs` command.
//
// Last returns the final lines of the file along with the byte offset where
// reading stopped; Follow then polls from that offset and emits lines as the
// logger appends them. Both tolerate a missing file so the command works
// before the first batch has logged anything.
package logs
