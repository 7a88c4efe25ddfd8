// Package sheets provides the downstream store for synced transactions.
//
// The store exposes exactly two operations: listing the identity keys already
// durable downstream and appending new rows. The Google Sheets client
// authenticates with a service account and talks to the Sheets v4 values API.
// The read-then-append sequence is a check-then-act race when several
// processes run concurrently; that is accepted because identity keys make
// appends idempotent to interpret and the store is re-read on every run.
package sheets
