// Package preflight provides readiness checks for the external tools and
// filesystem paths voxtract depends on.
//
// The CLI "voxtract doctor" command runs RunAll and CheckSystemDeps and renders
// the results. Extraction itself does not gate on these checks; a missing
// engine surfaces as per-recording engine failures in the ledger instead.
package preflight
