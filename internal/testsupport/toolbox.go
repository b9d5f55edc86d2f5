package testsupport

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"trcconv/internal/sigio"
)

// FakeToolbox is an in-memory sigio.Toolbox. Recordings are registered per
// source path; writes create a real file at the target path so
// existence-based skip logic behaves as in production.
type FakeToolbox struct {
	mu         sync.Mutex
	headers    map[string]sigio.Header
	recordings map[string]sigio.Recording
	headerErr  map[string]error
	loadErr    map[string]error
	writeErr   error

	HeaderReads  int
	PayloadLoads int
	Writes       int
	Written      map[string]sigio.Recording
}

// NewFakeToolbox returns an empty fake.
func NewFakeToolbox() *FakeToolbox {
	return &FakeToolbox{
		headers:    make(map[string]sigio.Header),
		recordings: make(map[string]sigio.Recording),
		headerErr:  make(map[string]error),
		loadErr:    make(map[string]error),
		Written:    make(map[string]sigio.Recording),
	}
}

// AddRecording registers a readable recording with a synthesized payload.
func (f *FakeToolbox) AddRecording(path string, rate float64, channelLabels []string, sampleCount int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	header := sigio.Header{
		SamplingRate:  rate,
		ChannelCount:  len(channelLabels),
		SampleCount:   sampleCount,
		ChannelLabels: append([]string(nil), channelLabels...),
	}
	samples := make([][]float64, len(channelLabels))
	for c := range samples {
		samples[c] = make([]float64, sampleCount)
		for i := range samples[c] {
			samples[c][i] = float64(c*sampleCount + i)
		}
	}
	f.headers[path] = header
	f.recordings[path] = sigio.Recording{Header: header, Samples: samples}
}

// AddRecordingAt registers a readable recording with a recording timestamp.
func (f *FakeToolbox) AddRecordingAt(path string, rate float64, channelLabels []string, sampleCount int, recordedAt time.Time) {
	f.AddRecording(path, rate, channelLabels, sampleCount)

	f.mu.Lock()
	defer f.mu.Unlock()
	header := f.headers[path]
	header.RecordedAt = recordedAt
	f.headers[path] = header
	rec := f.recordings[path]
	rec.Header = header
	f.recordings[path] = rec
}

// FailHeader makes ReadHeader fail for the given path.
func (f *FakeToolbox) FailHeader(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headerErr[path] = err
}

// FailLoad makes ReadFullRecording fail for the given path.
func (f *FakeToolbox) FailLoad(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr[path] = err
}

// FailWrites makes every WriteRecording call fail.
func (f *FakeToolbox) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

// ReadHeader implements sigio.Toolbox.
func (f *FakeToolbox) ReadHeader(_ context.Context, path string) (sigio.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.HeaderReads++
	if err, ok := f.headerErr[path]; ok {
		return sigio.Header{}, fmt.Errorf("%w: %v", sigio.ErrHeaderRead, err)
	}
	header, ok := f.headers[path]
	if !ok {
		return sigio.Header{}, fmt.Errorf("%w: unknown recording %s", sigio.ErrHeaderRead, path)
	}
	return header, nil
}

// ReadFullRecording implements sigio.Toolbox.
func (f *FakeToolbox) ReadFullRecording(_ context.Context, path string) (sigio.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.PayloadLoads++
	if err, ok := f.loadErr[path]; ok {
		return sigio.Recording{}, fmt.Errorf("%w: %v", sigio.ErrPayloadLoad, err)
	}
	rec, ok := f.recordings[path]
	if !ok {
		return sigio.Recording{}, fmt.Errorf("%w: unknown recording %s", sigio.ErrPayloadLoad, path)
	}
	return rec, nil
}

// WriteRecording implements sigio.Toolbox.
func (f *FakeToolbox) WriteRecording(_ context.Context, targetPath string, rec sigio.Recording) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Writes++
	if f.writeErr != nil {
		return fmt.Errorf("%w: %v", sigio.ErrWrite, f.writeErr)
	}
	if err := os.WriteFile(targetPath, []byte("converted"), 0o644); err != nil {
		return fmt.Errorf("%w: %v", sigio.ErrWrite, err)
	}
	f.Written[targetPath] = rec
	return nil
}
