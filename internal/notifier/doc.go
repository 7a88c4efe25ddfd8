// Package notifier posts batch summaries after a successful sync.
//
// The notifier is an optional outbound channel: it receives the period and
// per-category counts of a synced batch and announces them, currently to
// Twitter. Notification failures are reported to the caller but never fail
// the sync run that produced the batch.
package notifier
