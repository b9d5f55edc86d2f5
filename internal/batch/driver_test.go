package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trcconv/internal/batch"
	"trcconv/internal/catalog"
	"trcconv/internal/config"
	"trcconv/internal/discovery"
	"trcconv/internal/journal"
	"trcconv/internal/testsupport"
)

func seedSource(t *testing.T, cfg *config.Config, toolbox *testsupport.FakeToolbox) (good, slow, broken string) {
	t.Helper()

	good = filepath.Join(cfg.Paths.SourceDir, "GroupA", "PAT_1", "EEG_01.TRC")
	slow = filepath.Join(cfg.Paths.SourceDir, "GroupA", "PAT_1", "EEG_02.TRC")
	broken = filepath.Join(cfg.Paths.SourceDir, "GroupB", "PAT_2", "EEG_03.TRC")
	for _, path := range []string{good, slow, broken} {
		testsupport.WriteFile(t, path, 32)
	}

	toolbox.AddRecording(good, 2048, []string{"Fp1", "Fp2"}, 100)
	toolbox.AddRecording(slow, 512, []string{"Fp1"}, 100)
	toolbox.FailHeader(broken, errors.New("corrupt header"))
	return good, slow, broken
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	toolbox := testsupport.NewFakeToolbox()
	good, _, _ := seedSource(t, cfg, toolbox)

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	summary, err := batch.New(cfg, toolbox, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Discovered != 3 || summary.Accepted != 1 || summary.Rejected != 1 || summary.Unreadable != 1 {
		t.Fatalf("unexpected partition counts: %+v", summary)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected conversion counts: %+v", summary)
	}

	target := filepath.Join(cfg.Paths.OutputDir, "GroupA", "PAT_1", "PAT_1_EEG_01.edf")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("converted file missing: %v", err)
	}

	cat := catalog.New(cfg.Paths.OutputDir)
	accepted, err := cat.Accepted.Load()
	if err != nil {
		t.Fatalf("load accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0] != good {
		t.Fatalf("unexpected accepted artifact: %v", accepted)
	}
	failed, err := cat.FailedConversions.Load()
	if err != nil {
		t.Fatalf("load failures: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected failure artifact: %v", failed)
	}

	runs, err := store.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Counts.Converted != 1 || runs[0].Counts.Discovered != 3 {
		t.Fatalf("unexpected journal run: %+v", runs)
	}
}

func TestRerunSkipsExistingOutputs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	toolbox := testsupport.NewFakeToolbox()
	seedSource(t, cfg, toolbox)

	driver := batch.New(cfg, toolbox, nil, nil)
	if _, err := driver.Run(context.Background()); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	writesAfterFirst := toolbox.Writes
	headerReadsAfterFirst := toolbox.HeaderReads

	second, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if !second.Resumed {
		t.Fatal("second run should resume validation from artifacts")
	}
	if second.Converted != 0 || second.Skipped != 1 {
		t.Fatalf("unexpected second-run counts: %+v", second)
	}
	if toolbox.Writes != writesAfterFirst {
		t.Fatal("second run performed writes")
	}
	// Resumed validation reads no headers; the skip-if-exists check fires
	// before the worker's defensive re-read.
	if toolbox.HeaderReads != headerReadsAfterFirst {
		t.Fatal("second run re-read headers")
	}
}

func TestRunRecordsConversionFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	toolbox := testsupport.NewFakeToolbox()
	good, _, _ := seedSource(t, cfg, toolbox)
	toolbox.FailLoad(good, errors.New("payload truncated"))

	summary, err := batch.New(cfg, toolbox, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Failed != 1 || summary.Converted != 0 {
		t.Fatalf("unexpected counts: %+v", summary)
	}

	failed, err := catalog.New(cfg.Paths.OutputDir).FailedConversions.Load()
	if err != nil {
		t.Fatalf("load failures: %v", err)
	}
	if len(failed) != 1 || failed[0] != good {
		t.Fatalf("unexpected failure artifact: %v", failed)
	}
}

func TestRunMissingSourceRootIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	toolbox := testsupport.NewFakeToolbox()

	_, err := batch.New(cfg, toolbox, nil, nil).Run(context.Background())
	if !errors.Is(err, discovery.ErrDirectoryNotFound) {
		t.Fatalf("expected ErrDirectoryNotFound, got %v", err)
	}
}
