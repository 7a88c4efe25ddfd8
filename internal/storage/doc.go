// Package storage provides CSV-based persistence for synced batches.
//
// Every successful sync writes its batch to a flat file keyed by processing
// date (nfl_transactions_YYYY-MM-DD.csv), one record per row in the same
// column order as the downstream worksheet. The files are the recovery and
// audit trail independent of the downstream store's availability. The default
// location is ~/.local/share/nfl-transactions/.
package storage
