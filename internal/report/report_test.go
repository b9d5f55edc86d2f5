package report_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"trcconv/internal/report"
	"trcconv/internal/testsupport"
)

func day(offset int) time.Time {
	return time.Date(2024, time.March, 10+offset, 9, 30, 0, 0, time.UTC)
}

func TestBuildOrdersAndIndexesByRecordingDate(t *testing.T) {
	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecordingAt("/eeg/PAT_1/b.TRC", 2048, []string{"Fp1", "Fp2"}, 2048*3600, day(2))
	toolbox.AddRecordingAt("/eeg/PAT_1/a.TRC", 2048, []string{"Fp1", "Fp2"}, 2048*7200, day(0))
	toolbox.AddRecordingAt("/eeg/PAT_2/c.TRC", 1024, []string{"Fp1"}, 1024*1800, day(5))

	entries, err := report.Build(context.Background(), toolbox,
		[]string{"/eeg/PAT_1/b.TRC", "/eeg/PAT_1/a.TRC", "/eeg/PAT_2/c.TRC"}, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantNames := []string{"a.TRC", "b.TRC", "c.TRC"}
	wantDays := []int{0, 2, 5}
	for i, entry := range entries {
		if entry.Name != wantNames[i] {
			t.Errorf("entry %d: name = %s, want %s", i, entry.Name, wantNames[i])
		}
		if entry.Day != wantDays[i] {
			t.Errorf("entry %d: day = %d, want %d", i, entry.Day, wantDays[i])
		}
	}
	if got := entries[0].DurationHours; got != 2 {
		t.Errorf("duration = %v hours, want 2", got)
	}
	if got := entries[0].ChannelCount; got != 2 {
		t.Errorf("channel count = %d, want 2", got)
	}
}

func TestBuildOmitsUnreadableFiles(t *testing.T) {
	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecordingAt("/eeg/PAT_1/a.TRC", 2048, []string{"Fp1"}, 100, day(0))
	toolbox.FailHeader("/eeg/PAT_1/bad.TRC", errors.New("corrupt"))

	entries, err := report.Build(context.Background(), toolbox,
		[]string{"/eeg/PAT_1/a.TRC", "/eeg/PAT_1/bad.TRC"}, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.TRC" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	entries := []report.Entry{
		{
			Directory:     "/eeg/PAT_1",
			Path:          "/eeg/PAT_1/a.TRC",
			Name:          "a.TRC",
			RecordedAt:    day(0),
			SamplingRate:  2048,
			DurationHours: 2.5,
			ChannelCount:  21,
			Day:           0,
		},
		{
			Directory:     "/eeg/PAT_2",
			Path:          "/eeg/PAT_2/c.TRC",
			Name:          "c.TRC",
			RecordedAt:    day(3),
			SamplingRate:  1024,
			DurationHours: 0.5,
			ChannelCount:  19,
			Day:           3,
		},
	}

	path := filepath.Join(t.TempDir(), report.FilesInfoFile)
	if err := report.WriteCSV(path, entries); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	loaded, err := report.LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(loaded))
	}
	if loaded[0].Path != entries[0].Path || !loaded[0].RecordedAt.Equal(entries[0].RecordedAt) {
		t.Fatalf("first row mismatch: %+v", loaded[0])
	}
	if loaded[1].ChannelCount != 19 || loaded[1].Day != 3 {
		t.Fatalf("second row mismatch: %+v", loaded[1])
	}
}

func TestPatientName(t *testing.T) {
	entry := report.Entry{Directory: "/eeg/GroupA/PAT_1 FR09SH68"}
	if got := entry.PatientName(); got != "Pat 1 Fr09sh68" {
		t.Fatalf("PatientName = %q", got)
	}
}
