// Package progress reports per-family extraction progress either as terminal
// progress bars or as sampled log lines when output is not a terminal.
package progress
