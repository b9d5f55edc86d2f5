// Package selection picks one recording per patient from a metadata
// report, preferring a configured monitoring day and requiring a minimum
// recording length.
package selection

import (
	"log/slog"
	"sort"

	"trcconv/internal/report"
)

// SelectedFile is the selection artifact name under the output root.
const SelectedFile = "Selected_Files.csv"

// Criteria controls the per-patient pick.
type Criteria struct {
	// TargetDay is the preferred day index. Patients whose stay is shorter
	// fall back to their last recorded day.
	TargetDay int
	// MinDurationHours excludes recordings at or below this length.
	MinDurationHours float64
}

// Pick chooses at most one entry per patient directory. Within the chosen
// day, candidates long enough are ranked by duration descending, ties
// broken by path, so the pick is deterministic across runs. Patients with
// no qualifying recording are logged and omitted.
func Pick(entries []report.Entry, criteria Criteria, logger *slog.Logger) []report.Entry {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "selection")

	byPatient := make(map[string][]report.Entry)
	for _, entry := range entries {
		byPatient[entry.Directory] = append(byPatient[entry.Directory], entry)
	}

	patients := make([]string, 0, len(byPatient))
	for patient := range byPatient {
		patients = append(patients, patient)
	}
	sort.Strings(patients)

	var picked []report.Entry
	for _, patient := range patients {
		recordings := byPatient[patient]
		day := targetDay(recordings, criteria.TargetDay)

		candidates := recordings[:0:0]
		for _, entry := range recordings {
			if entry.Day == day && entry.DurationHours > criteria.MinDurationHours {
				candidates = append(candidates, entry)
			}
		}
		if len(candidates) == 0 {
			logger.Warn("no qualifying recording for patient",
				"patient", patient,
				"day", day,
				"min_duration_h", criteria.MinDurationHours,
			)
			continue
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].DurationHours != candidates[j].DurationHours {
				return candidates[i].DurationHours > candidates[j].DurationHours
			}
			return candidates[i].Path < candidates[j].Path
		})
		picked = append(picked, candidates[0])
	}
	return picked
}

// targetDay clamps the preferred day to the patient's last recorded day.
func targetDay(recordings []report.Entry, preferred int) int {
	last := 0
	for _, entry := range recordings {
		if entry.Day > last {
			last = entry.Day
		}
	}
	if preferred > last {
		return last
	}
	return preferred
}
