package wiper

import "time"

// Outcome is the terminal state of a wipe run. A failed run is reported as
// an error return instead of an outcome.
type Outcome int

const (
	// OutcomeCompleted means the deletion loop ran to an empty table, or the
	// table was already empty.
	OutcomeCompleted Outcome = iota
	// OutcomeDryRun means the plan was reported and nothing was deleted.
	OutcomeDryRun
	// OutcomeAborted means the user declined the confirmation prompt.
	// Not a failure; nothing was deleted.
	OutcomeAborted
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeAborted:
		return "aborted"
	default:
		return "completed"
	}
}

// Stats summarizes a wipe run. It is created when the run starts, updated
// after every batch, and returned to the caller for display.
type Stats struct {
	Table          string
	TotalBefore    int64 // row count measured at the start of the run
	BatchSize      int
	BatchesPlanned int64 // ceil(TotalBefore / BatchSize)
	BatchesRun     int
	RowsDeleted    int64 // monotonically increasing during execution
	FinalCount     int64 // post-run verification count, valid when Verified
	Verified       bool
	SamplePKs      []interface{} // first primary keys, dry-run only
	Elapsed        time.Duration
	Outcome        Outcome
}

// ProgressFunc receives one observation after each committed batch.
type ProgressFunc func(batch int, rowsDeleted, totalDeleted, initialCount int64)

// ConfirmFunc asks the caller to approve deleting total rows.
// Returning false aborts the run.
type ConfirmFunc func(total int64) bool
