// Package parser converts raw fetched content into transaction candidates.
//
// Two mutually exclusive strategies are tried per fetch. The structured
// strategy decodes the ESPN API's JSON item list one-to-one into candidates.
// When the content is not that shape, or the list is empty, the heuristic
// strategy scans the content as text lines, pairing player-identity lines
// with the transaction line that follows via a small explicit state machine.
// Individual malformed lines or items are skipped, never fatal; an empty
// result is a soft no-data outcome decided by the caller.
package parser
