// Package features defines the feature families, the numeric array produced by
// an extractor, and the Extractor contract every engine adapter satisfies.
//
// Adapters know nothing about the output tree or checkpointing: they turn a
// recording path and an output mode into an Array or an error.
package features
