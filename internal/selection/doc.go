// Package selection copies the subset of a recording corpus whose file names
// mention any of a set of task keywords.
//
// The source tree is scanned recursively for .wav files. Keyword matching uses
// Unicode case folding so "Vowel", "VOWEL" and "vowel" select the same files.
// Copies keep the source modification time and are verified by checksum; a
// failed copy is reported and the run moves on to the next file.
package selection
