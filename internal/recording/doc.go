// Package recording enumerates input audio files and gives each one an explicit
// identity. The ID derived here is the only place file names are turned into
// artifact and ledger keys.
package recording
