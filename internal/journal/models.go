package journal

import "time"

// Outcome classifies a single file within a run.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeRejectedRate  Outcome = "rejected_rate"
	OutcomeUnreadable    Outcome = "unreadable"
	OutcomeConverted     Outcome = "converted"
	OutcomeSkippedExists Outcome = "skipped_exists"
	OutcomeSkippedRate   Outcome = "skipped_rate"
	OutcomeFailed        Outcome = "failed"
)

// Counts aggregates a finished run.
type Counts struct {
	Discovered   int
	Accepted     int
	RejectedRate int
	Unreadable   int
	Converted    int
	Skipped      int
	Failed       int
}

// Run is one batch invocation.
type Run struct {
	ID           string
	SourceDir    string
	OutputDir    string
	TargetFormat string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Counts       Counts
}

// Event is one per-file outcome within a run.
type Event struct {
	SourcePath string
	Outcome    Outcome
	Reason     string
	CreatedAt  time.Time
}
