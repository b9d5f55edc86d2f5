package selection_test

import (
	"testing"

	"trcconv/internal/report"
	"trcconv/internal/selection"
)

func entry(dir, path string, day int, hours float64) report.Entry {
	return report.Entry{Directory: dir, Path: path, Day: day, DurationHours: hours}
}

func TestPickPrefersTargetDay(t *testing.T) {
	entries := []report.Entry{
		entry("/eeg/PAT_1", "/eeg/PAT_1/d0.TRC", 0, 8),
		entry("/eeg/PAT_1", "/eeg/PAT_1/d3_short.TRC", 3, 2),
		entry("/eeg/PAT_1", "/eeg/PAT_1/d3_long.TRC", 3, 9),
		entry("/eeg/PAT_1", "/eeg/PAT_1/d5.TRC", 5, 12),
	}

	picked := selection.Pick(entries, selection.Criteria{TargetDay: 3, MinDurationHours: 4}, nil)
	if len(picked) != 1 {
		t.Fatalf("expected one pick, got %d", len(picked))
	}
	if picked[0].Path != "/eeg/PAT_1/d3_long.TRC" {
		t.Fatalf("picked %s", picked[0].Path)
	}
}

func TestPickFallsBackToLastDay(t *testing.T) {
	entries := []report.Entry{
		entry("/eeg/PAT_1", "/eeg/PAT_1/d0.TRC", 0, 6),
		entry("/eeg/PAT_1", "/eeg/PAT_1/d1.TRC", 1, 7),
	}

	picked := selection.Pick(entries, selection.Criteria{TargetDay: 3, MinDurationHours: 4}, nil)
	if len(picked) != 1 || picked[0].Path != "/eeg/PAT_1/d1.TRC" {
		t.Fatalf("unexpected pick: %+v", picked)
	}
}

func TestPickSkipsPatientsWithoutQualifyingRecording(t *testing.T) {
	entries := []report.Entry{
		entry("/eeg/PAT_1", "/eeg/PAT_1/d3.TRC", 3, 1.5),
		entry("/eeg/PAT_2", "/eeg/PAT_2/d3.TRC", 3, 10),
	}

	picked := selection.Pick(entries, selection.Criteria{TargetDay: 3, MinDurationHours: 4}, nil)
	if len(picked) != 1 || picked[0].Directory != "/eeg/PAT_2" {
		t.Fatalf("unexpected picks: %+v", picked)
	}
}

func TestPickIsDeterministicAcrossPatients(t *testing.T) {
	entries := []report.Entry{
		entry("/eeg/PAT_2", "/eeg/PAT_2/d0.TRC", 0, 8),
		entry("/eeg/PAT_1", "/eeg/PAT_1/d0.TRC", 0, 8),
	}

	picked := selection.Pick(entries, selection.Criteria{TargetDay: 0, MinDurationHours: 4}, nil)
	if len(picked) != 2 {
		t.Fatalf("expected two picks, got %d", len(picked))
	}
	if picked[0].Directory != "/eeg/PAT_1" || picked[1].Directory != "/eeg/PAT_2" {
		t.Fatalf("patients out of order: %+v", picked)
	}
}

func TestPickEmptyReport(t *testing.T) {
	if picked := selection.Pick(nil, selection.Criteria{TargetDay: 3, MinDurationHours: 4}, nil); len(picked) != 0 {
		t.Fatalf("expected no picks, got %+v", picked)
	}
}
