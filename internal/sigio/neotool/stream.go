package neotool

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"trcconv/internal/sigio"
)

// wireHeader is the JSON form of a recording header as emitted by
// "neurotool probe --json" and on the first line of an export stream.
type wireHeader struct {
	SamplingRate  float64  `json:"sampling_rate"`
	ChannelCount  int      `json:"channel_count"`
	SampleCount   int      `json:"sample_count"`
	ChannelLabels []string `json:"channel_labels"`
	RecordedAt    string   `json:"recorded_at,omitempty"`
}

func parseHeader(data []byte) (sigio.Header, error) {
	var wire wireHeader
	if err := json.Unmarshal(data, &wire); err != nil {
		return sigio.Header{}, fmt.Errorf("parse header: %w", err)
	}
	return wire.toHeader()
}

func (w wireHeader) toHeader() (sigio.Header, error) {
	if w.SamplingRate <= 0 {
		return sigio.Header{}, fmt.Errorf("invalid sampling rate %v", w.SamplingRate)
	}
	if w.ChannelCount < 0 || w.SampleCount < 0 {
		return sigio.Header{}, fmt.Errorf("invalid dimensions %dx%d", w.ChannelCount, w.SampleCount)
	}
	header := sigio.Header{
		SamplingRate:  w.SamplingRate,
		ChannelCount:  w.ChannelCount,
		SampleCount:   w.SampleCount,
		ChannelLabels: w.ChannelLabels,
	}
	if w.RecordedAt != "" {
		recordedAt, err := time.Parse(time.RFC3339, w.RecordedAt)
		if err != nil {
			return sigio.Header{}, fmt.Errorf("parse recorded_at: %w", err)
		}
		header.RecordedAt = recordedAt
	}
	return header, nil
}

func fromHeader(h sigio.Header) wireHeader {
	wire := wireHeader{
		SamplingRate:  h.SamplingRate,
		ChannelCount:  h.ChannelCount,
		SampleCount:   h.SampleCount,
		ChannelLabels: h.ChannelLabels,
	}
	if !h.RecordedAt.IsZero() {
		wire.RecordedAt = h.RecordedAt.UTC().Format(time.RFC3339)
	}
	return wire
}

// decodeStream reads an export stream: one JSON header line followed by
// channel-major raw little-endian float64 samples.
func decodeStream(r io.Reader) (sigio.Recording, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return sigio.Recording{}, fmt.Errorf("read stream header: %w", err)
	}
	header, err := parseHeader(line)
	if err != nil {
		return sigio.Recording{}, err
	}

	samples := make([][]float64, header.ChannelCount)
	for c := range samples {
		samples[c] = make([]float64, header.SampleCount)
		if err := binary.Read(br, binary.LittleEndian, samples[c]); err != nil {
			return sigio.Recording{}, fmt.Errorf("read channel %d samples: %w", c, err)
		}
	}
	return sigio.Recording{Header: header, Samples: samples}, nil
}

// encodeStream writes the inverse of decodeStream.
func encodeStream(w io.Writer, rec sigio.Recording) error {
	if len(rec.Samples) != rec.Header.ChannelCount {
		return fmt.Errorf("channel count mismatch: header %d, payload %d", rec.Header.ChannelCount, len(rec.Samples))
	}

	bw := bufio.NewWriter(w)

	line, err := json.Marshal(fromHeader(rec.Header))
	if err != nil {
		return fmt.Errorf("encode stream header: %w", err)
	}
	if _, err := bw.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write stream header: %w", err)
	}

	for c, channel := range rec.Samples {
		if len(channel) != rec.Header.SampleCount {
			return fmt.Errorf("channel %d sample count mismatch: header %d, payload %d", c, rec.Header.SampleCount, len(channel))
		}
		if err := binary.Write(bw, binary.LittleEndian, channel); err != nil {
			return fmt.Errorf("write channel %d samples: %w", c, err)
		}
	}
	return bw.Flush()
}
