package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trcconv/internal/convert"
	"trcconv/internal/sanitize"
	"trcconv/internal/testsupport"
)

func TestConvertWritesMirroredTarget(t *testing.T) {
	outputDir := t.TempDir()
	source := "/data/GroupA/PAT_1 FR09SH68/EEG_21.TRC"

	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecording(source, 2048, []string{"Fp1", " 12 ", ""}, 50)

	worker := convert.NewWorker(toolbox, outputDir, ".edf", 1000, nil)
	result := worker.Convert(context.Background(), source)

	if result.Outcome != convert.Converted {
		t.Fatalf("outcome = %v (%s), err %v", result.Outcome, result.Reason, result.Err)
	}
	want := filepath.Join(outputDir, "GroupA", "PAT_1 FR09SH68", "PAT_1_FR09SH68_EEG_21.edf")
	if result.Target != want {
		t.Fatalf("target = %q, want %q", result.Target, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("target file missing: %v", err)
	}

	written, ok := toolbox.Written[filepath.Join(outputDir, "GroupA", "PAT_1 FR09SH68", "PAT_1_FR09SH68_EEG_21.partial.edf")]
	if !ok {
		t.Fatalf("expected write through partial path, got %v", toolbox.Written)
	}
	wantLabels := []string{"Fp1", "ch12", "ch"}
	for i, label := range written.Header.ChannelLabels {
		if label != wantLabels[i] {
			t.Fatalf("label %d = %q, want %q", i, label, wantLabels[i])
		}
	}
}

func TestConvertSkipsExistingWithoutPayloadRead(t *testing.T) {
	outputDir := t.TempDir()
	source := "/data/GroupA/PAT_1/EEG_01.TRC"

	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecording(source, 2048, []string{"Fp1"}, 50)

	worker := convert.NewWorker(toolbox, outputDir, ".edf", 1000, nil)
	first := worker.Convert(context.Background(), source)
	if first.Outcome != convert.Converted {
		t.Fatalf("first outcome = %v, err %v", first.Outcome, first.Err)
	}
	loadsAfterFirst := toolbox.PayloadLoads
	headersAfterFirst := toolbox.HeaderReads

	second := worker.Convert(context.Background(), source)
	if second.Outcome != convert.SkippedExisting {
		t.Fatalf("second outcome = %v, want SkippedExisting", second.Outcome)
	}
	if toolbox.PayloadLoads != loadsAfterFirst {
		t.Fatal("skip read the source payload")
	}
	if toolbox.HeaderReads != headersAfterFirst {
		t.Fatal("skip re-read the header")
	}
	if toolbox.Writes != 1 {
		t.Fatalf("expected exactly one write, got %d", toolbox.Writes)
	}
}

func TestConvertSkipsLowRateOnRecheck(t *testing.T) {
	outputDir := t.TempDir()
	source := "/data/GroupA/PAT_1/EEG_01.TRC"

	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecording(source, 512, []string{"Fp1"}, 50)

	worker := convert.NewWorker(toolbox, outputDir, ".edf", 1000, nil)
	result := worker.Convert(context.Background(), source)
	if result.Outcome != convert.SkippedLowRate {
		t.Fatalf("outcome = %v, want SkippedLowRate", result.Outcome)
	}
	if toolbox.PayloadLoads != 0 {
		t.Fatal("low-rate skip loaded the payload")
	}
}

func TestConvertFailedLoadLeavesNoTarget(t *testing.T) {
	outputDir := t.TempDir()
	source := "/data/GroupA/PAT_1/EEG_01.TRC"

	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecording(source, 2048, []string{"Fp1"}, 50)
	toolbox.FailLoad(source, errors.New("short read"))

	worker := convert.NewWorker(toolbox, outputDir, ".edf", 1000, nil)
	result := worker.Convert(context.Background(), source)
	if result.Outcome != convert.Failed {
		t.Fatalf("outcome = %v, want Failed", result.Outcome)
	}
	if !strings.Contains(result.Reason, "load payload") {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
	if _, err := os.Stat(result.Target); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no target file, stat err = %v", err)
	}
}

func TestConvertFailedWriteLeavesNoPartial(t *testing.T) {
	outputDir := t.TempDir()
	source := "/data/GroupA/PAT_1/EEG_01.TRC"

	toolbox := testsupport.NewFakeToolbox()
	toolbox.AddRecording(source, 2048, []string{"Fp1"}, 50)
	toolbox.FailWrites(errors.New("disk full"))

	worker := convert.NewWorker(toolbox, outputDir, ".edf", 1000, nil)
	result := worker.Convert(context.Background(), source)
	if result.Outcome != convert.Failed {
		t.Fatalf("outcome = %v, want Failed", result.Outcome)
	}

	// A rerun must not see a half-written output and skip it.
	entries, err := os.ReadDir(filepath.Join(outputDir, "GroupA", "PAT_1"))
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty target directory, got %v", entries)
	}
}

func TestConvertRejectsShallowSource(t *testing.T) {
	toolbox := testsupport.NewFakeToolbox()
	worker := convert.NewWorker(toolbox, t.TempDir(), ".edf", 1000, nil)

	result := worker.Convert(context.Background(), "/EEG_01.TRC")
	if result.Outcome != convert.Failed {
		t.Fatalf("outcome = %v, want Failed", result.Outcome)
	}
	if !errors.Is(result.Err, sanitize.ErrPathStructure) {
		t.Fatalf("expected ErrPathStructure, got %v", result.Err)
	}
}
