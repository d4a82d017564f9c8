// Package disvoice runs DisVoice feature extraction through an external Python
// interpreter.
//
// This package handles:
//   - WAV header probing before the engine starts
//   - Invocation of the embedded bridge script through a configurable command
//   - Decoding the bridge output into features.Array values
//   - Classifying failures as decode or engine errors
//
// The engine command defaults to `uv run --quiet --with disvoice python`, so no
// Python environment has to be prepared by hand.
package disvoice
