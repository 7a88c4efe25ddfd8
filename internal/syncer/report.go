package syncer

import (
	"time"

	"github.com/pfrederiksen/nfl-transactions/internal/logger"
	"github.com/pfrederiksen/nfl-transactions/internal/parser"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Report is the structured outcome of one sync run. It is produced for every
// run, failed ones included, with enough detail to resume manually: the stage
// that failed and how many records survived to it.
type Report struct {
	RunID      string                       `json:"run_id"`
	Period     string                       `json:"period"`
	Succeeded  bool                         `json:"succeeded"`
	Stage      Stage                        `json:"stage"`
	FailedAt   Stage                        `json:"failed_at,omitempty"`
	Strategy   parser.Strategy              `json:"strategy,omitempty"`
	Fetched    int                          `json:"fetched"`
	New        int                          `json:"new"`
	Appended   int                          `json:"appended"`
	Partial    bool                         `json:"partial,omitempty"`
	BatchPath  string                       `json:"batch_path,omitempty"`
	ByCategory map[transaction.Category]int `json:"by_category,omitempty"`
	Errors     []string                     `json:"errors,omitempty"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
}

// fail marks the report failed at its current stage and logs the cause.
func (r *Report) fail(log *logger.Logger, err error) *Report {
	log.Error("Sync run failed", logger.Fields{
		"run_id": r.RunID,
		"period": r.Period,
		"stage":  string(r.Stage),
	}, err)

	r.Errors = append(r.Errors, err.Error())
	r.FailedAt = r.Stage
	r.Stage = StageFailed
	r.Succeeded = false
	return r
}

// BackfillReport accumulates the outcome of a historical range.
type BackfillReport struct {
	From          string    `json:"from"`
	To            string    `json:"to"`
	Periods       int       `json:"periods"`
	Fetched       int       `json:"fetched"`
	Appended      int       `json:"appended"`
	FailedPeriods []string  `json:"failed_periods,omitempty"`
	Reports       []*Report `json:"reports,omitempty"`
}
