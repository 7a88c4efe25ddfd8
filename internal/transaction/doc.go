// Package transaction provides the canonical NFL transaction record and the
// logic that shapes one.
//
// The package owns the record type, date canonicalization across the source's
// several textual encodings, the franchise abbreviation table, keyword-based
// category classification, and normalization of parsed candidates into
// records. Every record carries a deterministic identity key so that
// re-running the pipeline over the same source content never produces a
// second copy downstream.
package transaction
