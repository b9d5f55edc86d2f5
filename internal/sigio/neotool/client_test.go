package neotool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"trcconv/internal/sigio"
)

type fakeExecutor struct {
	calls  [][]string
	handle func(args []string, stdin io.Reader, stdout io.Writer) error
}

func (f *fakeExecutor) Run(_ context.Context, _ string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.calls = append(f.calls, args)
	return f.handle(args, stdin, stdout)
}

func testRecording() sigio.Recording {
	return sigio.Recording{
		Header: sigio.Header{
			SamplingRate:  2048,
			ChannelCount:  2,
			SampleCount:   4,
			ChannelLabels: []string{"Fp1", "Fp2"},
			RecordedAt:    time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC),
		},
		Samples: [][]float64{
			{0, 1.5, -2.25, math.Pi},
			{4, 5, 6, 7},
		},
	}
}

func TestReadHeaderParsesProbeOutput(t *testing.T) {
	exec := &fakeExecutor{handle: func(args []string, _ io.Reader, stdout io.Writer) error {
		fmt.Fprint(stdout, `{"sampling_rate":2048,"channel_count":32,"sample_count":737280,"channel_labels":["Fp1","Fp2"],"recorded_at":"2024-03-09T12:30:00Z"}`)
		return nil
	}}
	client, err := New("neurotool", 30, 600, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	header, err := client.ReadHeader(context.Background(), "/data/a/b/EEG_01.TRC")
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if header.SamplingRate != 2048 {
		t.Fatalf("unexpected rate: %v", header.SamplingRate)
	}
	if header.ChannelCount != 32 || header.SampleCount != 737280 {
		t.Fatalf("unexpected dimensions: %+v", header)
	}
	if got := header.Duration(); got != 6*time.Minute {
		t.Fatalf("unexpected duration: %v", got)
	}
	if len(exec.calls) != 1 || exec.calls[0][0] != "probe" {
		t.Fatalf("unexpected invocation: %v", exec.calls)
	}
}

func TestReadHeaderWrapsFailures(t *testing.T) {
	exec := &fakeExecutor{handle: func([]string, io.Reader, io.Writer) error {
		return errors.New("exit status 1: unsupported file")
	}}
	client, _ := New("neurotool", 30, 600, WithExecutor(exec))

	_, err := client.ReadHeader(context.Background(), "/data/a/b/broken.TRC")
	if !errors.Is(err, sigio.ErrHeaderRead) {
		t.Fatalf("expected ErrHeaderRead, got %v", err)
	}
}

func TestExportWriteRoundTrip(t *testing.T) {
	want := testRecording()

	var exported bytes.Buffer
	if err := encodeStream(&exported, want); err != nil {
		t.Fatalf("encodeStream returned error: %v", err)
	}

	var written sigio.Recording
	exec := &fakeExecutor{handle: func(args []string, stdin io.Reader, stdout io.Writer) error {
		switch args[0] {
		case "export":
			_, err := io.Copy(stdout, bytes.NewReader(exported.Bytes()))
			return err
		case "write":
			rec, err := decodeStream(stdin)
			if err != nil {
				return err
			}
			written = rec
			return nil
		default:
			return fmt.Errorf("unexpected subcommand %q", args[0])
		}
	}}
	client, _ := New("neurotool", 30, 600, WithExecutor(exec))

	rec, err := client.ReadFullRecording(context.Background(), "/data/a/b/EEG_01.TRC")
	if err != nil {
		t.Fatalf("ReadFullRecording returned error: %v", err)
	}
	if rec.Header.ChannelCount != want.Header.ChannelCount {
		t.Fatalf("unexpected header: %+v", rec.Header)
	}
	for c := range want.Samples {
		for i := range want.Samples[c] {
			if rec.Samples[c][i] != want.Samples[c][i] {
				t.Fatalf("sample [%d][%d] = %v, want %v", c, i, rec.Samples[c][i], want.Samples[c][i])
			}
		}
	}

	if err := client.WriteRecording(context.Background(), "/out/a/b/x.edf", rec); err != nil {
		t.Fatalf("WriteRecording returned error: %v", err)
	}
	if written.Header.SampleCount != want.Header.SampleCount {
		t.Fatalf("write stream lost header: %+v", written.Header)
	}
	if written.Header.RecordedAt != want.Header.RecordedAt {
		t.Fatalf("write stream lost timestamp: %v", written.Header.RecordedAt)
	}
}

func TestEncodeStreamRejectsMismatchedPayload(t *testing.T) {
	rec := testRecording()
	rec.Samples = rec.Samples[:1]

	err := encodeStream(io.Discard, rec)
	if err == nil || !strings.Contains(err.Error(), "channel count mismatch") {
		t.Fatalf("expected channel count mismatch, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 30, 600); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
