// Package report collects per-recording metadata for accepted files:
// sampling rate, channel count, duration, recording date, and the day
// index relative to each batch's earliest recording.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trcconv/internal/sigio"
)

// FilesInfoFile is the report artifact name under the output root.
const FilesInfoFile = "Files_Info.csv"

var csvHeader = []string{
	"directory", "filepath", "filename", "recording_date",
	"sampling_frequency", "duration_h", "number_of_channels", "day",
}

// Entry describes one accepted recording.
type Entry struct {
	Directory     string
	Path          string
	Name          string
	RecordedAt    time.Time
	SamplingRate  float64
	DurationHours float64
	ChannelCount  int
	// Day is the recording's day index relative to the earliest recording
	// in the report, starting at zero.
	Day int
}

var titleCaser = cases.Title(language.English)

// PatientName derives an operator-friendly display name from the entry's
// parent directory: "PAT_1 FR09SH68" becomes "Pat 1 Fr09sh68".
func (e Entry) PatientName() string {
	base := filepath.Base(e.Directory)
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(base, "_", " ")))
}

// Build probes every file and assembles the report. Files whose headers
// cannot be read are logged and omitted; the report is advisory, not an
// audit artifact. Entries are ordered by recording date.
func Build(ctx context.Context, toolbox sigio.Toolbox, files []string, logger *slog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "report")

	var entries []Entry
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		header, err := toolbox.ReadHeader(ctx, path)
		if err != nil {
			logger.Warn("header unreadable, omitting from report", "file", path, "error", err)
			continue
		}
		entries = append(entries, Entry{
			Directory:     filepath.Dir(path),
			Path:          path,
			Name:          filepath.Base(path),
			RecordedAt:    header.RecordedAt,
			SamplingRate:  header.SamplingRate,
			DurationHours: header.Duration().Hours(),
			ChannelCount:  header.ChannelCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
	assignDays(entries)
	return entries, nil
}

// assignDays indexes each entry by calendar days since the earliest
// recording date in the slice.
func assignDays(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	earliest := entries[0].RecordedAt
	for _, entry := range entries {
		if entry.RecordedAt.Before(earliest) {
			earliest = entry.RecordedAt
		}
	}
	earliestDate := truncateToDate(earliest)
	for i := range entries {
		entries[i].Day = int(truncateToDate(entries[i].RecordedAt).Sub(earliestDate).Hours() / 24)
	}
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WriteCSV persists entries with a header row.
func WriteCSV(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write report header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.Directory,
			entry.Path,
			entry.Name,
			entry.RecordedAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(entry.SamplingRate, 'f', -1, 64),
			strconv.FormatFloat(entry.DurationHours, 'f', 4, 64),
			strconv.Itoa(entry.ChannelCount),
			strconv.Itoa(entry.Day),
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// LoadCSV reads a report written by WriteCSV.
func LoadCSV(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("report row %d: expected %d fields, got %d", i+2, len(csvHeader), len(record))
		}
		recordedAt, err := time.Parse(time.RFC3339, record[3])
		if err != nil {
			return nil, fmt.Errorf("report row %d: recording_date: %w", i+2, err)
		}
		rate, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("report row %d: sampling_frequency: %w", i+2, err)
		}
		duration, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("report row %d: duration_h: %w", i+2, err)
		}
		channels, err := strconv.Atoi(record[6])
		if err != nil {
			return nil, fmt.Errorf("report row %d: number_of_channels: %w", i+2, err)
		}
		day, err := strconv.Atoi(record[7])
		if err != nil {
			return nil, fmt.Errorf("report row %d: day: %w", i+2, err)
		}
		entries = append(entries, Entry{
			Directory:     record[0],
			Path:          record[1],
			Name:          record[2],
			RecordedAt:    recordedAt,
			SamplingRate:  rate,
			DurationHours: duration,
			ChannelCount:  channels,
			Day:           day,
		})
	}
	return entries, nil
}
