// Package sigio defines the capability surface of the external signal
// toolbox. The pipeline never parses recording bytes itself; everything
// format-specific goes through a Toolbox implementation.
package sigio

import (
	"context"
	"errors"
	"time"
)

// Header carries recording metadata readable without loading the payload.
type Header struct {
	SamplingRate  float64
	ChannelCount  int
	SampleCount   int
	ChannelLabels []string
	RecordedAt    time.Time
}

// Recording is a fully loaded signal payload. Samples is channel-major:
// Samples[c][i] is sample i of channel c. Peak memory is proportional to
// the recording size; there is no streaming load.
type Recording struct {
	Header  Header
	Samples [][]float64
}

// Duration returns the recording length derived from the header.
func (h Header) Duration() time.Duration {
	if h.SamplingRate <= 0 {
		return 0
	}
	seconds := float64(h.SampleCount) / h.SamplingRate
	return time.Duration(seconds * float64(time.Second))
}

// Toolbox reads source recordings and writes target containers. The target
// container is inferred from the destination path's extension.
type Toolbox interface {
	ReadHeader(ctx context.Context, path string) (Header, error)
	ReadFullRecording(ctx context.Context, path string) (Recording, error)
	WriteRecording(ctx context.Context, targetPath string, rec Recording) error
}

// Sentinel errors for the three toolbox operations. Implementations wrap
// these so callers can classify failures with errors.Is.
var (
	ErrHeaderRead  = errors.New("read recording header")
	ErrPayloadLoad = errors.New("load recording payload")
	ErrWrite       = errors.New("write recording")
)
