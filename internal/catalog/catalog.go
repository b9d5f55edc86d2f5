// Package catalog manages the durable outcome artifacts of a batch run.
// Each partition is a flat CSV file of absolute source paths, one per
// record, written once and never mutated afterwards. The artifacts are the
// system's definitive record and drive resume-by-presence.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact file names, fixed by convention under the output root.
const (
	AcceptedFile          = "Patients_Correct_SamplingRate.csv"
	InsufficientRateFile  = "Patients_Insufficient_SamplingRate.csv"
	UnreadableFile        = "Unreadable_Files.csv"
	FailedConversionsFile = "Failed_Conversions.csv"
)

// List is one outcome partition backed by a CSV file.
type List struct {
	path string
}

// Catalog groups the outcome partitions under one output root.
type Catalog struct {
	dir string

	Accepted          *List
	InsufficientRate  *List
	Unreadable        *List
	FailedConversions *List
}

// New returns a catalog rooted at dir. Nothing is created until Write.
func New(dir string) *Catalog {
	return &Catalog{
		dir:               dir,
		Accepted:          &List{path: filepath.Join(dir, AcceptedFile)},
		InsufficientRate:  &List{path: filepath.Join(dir, InsufficientRateFile)},
		Unreadable:        &List{path: filepath.Join(dir, UnreadableFile)},
		FailedConversions: &List{path: filepath.Join(dir, FailedConversionsFile)},
	}
}

// Dir returns the output root the catalog lives under.
func (c *Catalog) Dir() string {
	return c.dir
}

// Path returns the absolute location of the partition file.
func (l *List) Path() string {
	return l.path
}

// Exists reports whether the partition file is present on disk.
func (l *List) Exists() bool {
	info, err := os.Stat(l.path)
	return err == nil && !info.IsDir()
}

// Load reads every record from the partition. A missing file yields
// fs.ErrNotExist; the content is trusted and not re-verified.
func (l *List) Load() ([]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 1

	var records []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", l.path, err)
		}
		records = append(records, record[0])
	}
	return records, nil
}

// Write persists the records atomically, replacing any prior content. The
// file only appears at its final path once fully written.
func (l *List) Write(records []string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	for _, record := range records {
		if err := writer.Write([]string{record}); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", l.path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", l.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("publish %s: %w", l.path, err)
	}
	return nil
}

// IsNotExist reports whether err stems from a missing partition file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
