// Package neotool wraps the neurotool helper binary, the process boundary
// behind which all recording formats are parsed and written. The helper
// exposes three subcommands: probe (header as JSON), export (header line
// plus raw samples on stdout), and write (same stream on stdin, target
// container inferred from the destination extension).
package neotool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"trcconv/internal/sigio"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin io.Reader, stdout io.Writer) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client is the production sigio.Toolbox backed by the neurotool binary.
type Client struct {
	binary          string
	probeTimeout    time.Duration
	transferTimeout time.Duration
	exec            Executor
}

// New constructs a neurotool client. Timeouts of zero disable the
// per-operation deadline.
func New(binary string, probeTimeoutSeconds, transferTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("neurotool binary required")
	}
	client := &Client{
		binary:          binary,
		probeTimeout:    time.Duration(probeTimeoutSeconds) * time.Second,
		transferTimeout: time.Duration(transferTimeoutSeconds) * time.Second,
		exec:            commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ReadHeader probes a recording for metadata without loading samples.
func (c *Client) ReadHeader(ctx context.Context, path string) (sigio.Header, error) {
	ctx, cancel := c.withTimeout(ctx, c.probeTimeout)
	defer cancel()

	var out bytes.Buffer
	if err := c.exec.Run(ctx, c.binary, []string{"probe", "--json", path}, nil, &out); err != nil {
		return sigio.Header{}, fmt.Errorf("%w: %v", sigio.ErrHeaderRead, err)
	}
	header, err := parseHeader(out.Bytes())
	if err != nil {
		return sigio.Header{}, fmt.Errorf("%w: %v", sigio.ErrHeaderRead, err)
	}
	return header, nil
}

// ReadFullRecording loads the complete payload of a recording into memory.
func (c *Client) ReadFullRecording(ctx context.Context, path string) (sigio.Recording, error) {
	ctx, cancel := c.withTimeout(ctx, c.transferTimeout)
	defer cancel()

	var out bytes.Buffer
	if err := c.exec.Run(ctx, c.binary, []string{"export", path}, nil, &out); err != nil {
		return sigio.Recording{}, fmt.Errorf("%w: %v", sigio.ErrPayloadLoad, err)
	}
	rec, err := decodeStream(&out)
	if err != nil {
		return sigio.Recording{}, fmt.Errorf("%w: %v", sigio.ErrPayloadLoad, err)
	}
	return rec, nil
}

// WriteRecording hands the payload to the helper, which writes the target
// container at targetPath.
func (c *Client) WriteRecording(ctx context.Context, targetPath string, rec sigio.Recording) error {
	ctx, cancel := c.withTimeout(ctx, c.transferTimeout)
	defer cancel()

	var in bytes.Buffer
	if err := encodeStream(&in, rec); err != nil {
		return fmt.Errorf("%w: %v", sigio.ErrWrite, err)
	}
	if err := c.exec.Run(ctx, c.binary, []string{"write", targetPath}, &in, io.Discard); err != nil {
		return fmt.Errorf("%w: %v", sigio.ErrWrite, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, lastLine(detail))
		}
		return fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return s
}
