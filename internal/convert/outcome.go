package convert

// Outcome classifies one conversion attempt. Skips are successes: they keep
// the worker idempotent across reruns.
type Outcome int

const (
	Converted Outcome = iota
	SkippedExisting
	SkippedLowRate
	Failed
)

// String returns the journal-friendly name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case SkippedExisting:
		return "skipped_exists"
	case SkippedLowRate:
		return "skipped_rate"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports one conversion attempt. No error crosses the per-file
// boundary; failures are carried here for the driver to aggregate.
type Result struct {
	Source  string
	Target  string
	Outcome Outcome
	// Reason is a short operator-facing description, set when Outcome is
	// Failed.
	Reason string
	Err    error
}
