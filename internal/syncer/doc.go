// Package syncer orchestrates one fetch → parse → normalize → dedupe →
// append cycle per period.
//
// The engine is a strictly linear state machine; a failure in any stage moves
// the run to Failed and the report records which stage died and how many
// records survived to it. Every run produces a report, including failed ones.
// Historical backfill is the same single-period engine applied once per day,
// with mandatory spacing between fetches; a failed day never stops later
// days. Re-running any period is safe because downstream membership is keyed
// by identity and re-checked every run.
package syncer
