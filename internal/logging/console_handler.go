package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorDim    = "\x1b[2m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorCyan   = "\x1b[36m"
)

// consoleHandler renders human-oriented log lines:
//
//	15:04:05 INFO  validation  progress  - processed: 50/200
type consoleHandler struct {
	mu     sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
	color  bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &consoleHandler{writer: w, level: lvl, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var buf bytes.Buffer
	buf.Grow(128)

	if h.color {
		buf.WriteString(colorDim)
	}
	buf.WriteString(timestamp.Format("15:04:05"))
	if h.color {
		buf.WriteString(colorReset)
	}
	buf.WriteByte(' ')

	h.writeLevel(&buf, record.Level)
	buf.WriteByte(' ')

	component := ""
	var tail bytes.Buffer
	appendAttr := func(attr slog.Attr) bool {
		if attr.Key == "component" && component == "" {
			component = attr.Value.String()
			return true
		}
		tail.WriteString("  ")
		tail.WriteString(attr.Key)
		tail.WriteByte('=')
		tail.WriteString(formatValue(attr.Value))
		return true
	}
	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	record.Attrs(appendAttr)

	if component != "" {
		if h.color {
			buf.WriteString(colorCyan)
		}
		buf.WriteString(component)
		if h.color {
			buf.WriteString(colorReset)
		}
		buf.WriteString("  ")
	}
	buf.WriteString(record.Message)
	buf.Write(tail.Bytes())
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeLevel(buf *bytes.Buffer, level slog.Level) {
	var label, color string
	switch {
	case level >= slog.LevelError:
		label, color = "ERROR", colorRed
	case level >= slog.LevelWarn:
		label, color = "WARN ", colorYellow
	case level >= slog.LevelInfo:
		label, color = "INFO ", ""
	default:
		label, color = "DEBUG", colorDim
	}
	if h.color && color != "" {
		buf.WriteString(color)
	}
	buf.WriteString(label)
	if h.color && color != "" {
		buf.WriteString(colorReset)
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
		color:  h.color,
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprint(v.Any())
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '"' || r == '=' || r < 0x20 {
			return true
		}
	}
	return false
}
