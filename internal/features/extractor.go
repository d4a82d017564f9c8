package features

import "context"

// Extractor computes one feature family for a recording.
//
// static selects the static (1-D summary) form instead of per-frame output.
// Implementations must return an error for unreadable audio, unsupported
// content, and engine failures rather than a degraded array.
type Extractor interface {
	Extract(ctx context.Context, path string, static bool) (Array, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string, static bool) (Array, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, path string, static bool) (Array, error) {
	return f(ctx, path, static)
}
