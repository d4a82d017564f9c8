// Package extraction drives feature families over a set of recordings.
//
// The Runner handles one family: it skips recordings whose artifact already
// exists, persists successful results, and appends failures to the shared
// ledger without stopping. The Batch controller enumerates inputs once, resets
// the ledger, runs every configured family in declared order, and produces the
// run Summary.
//
// Artifact existence is the only completion marker. The ledger and the run
// history are written for humans and triage tooling and are never read back
// to decide what to extract.
package extraction
