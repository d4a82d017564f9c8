// Package services defines shared utilities consumed by the extraction runner
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, family names, and recording names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into a closed set of failure kinds (decode, engine, io).
//
// Subpackages wrap individual external tools behind small testable types.
package services
