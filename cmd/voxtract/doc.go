// Package main hosts the voxtract CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into batch feature
// extraction runs, corpus preparation (keyword selection and segmentation),
// run history queries, failure ledger inspection, and configuration
// scaffolding. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on presentation.
//
// Keep this package lean: new behavior belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
