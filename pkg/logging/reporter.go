package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Format selects how a StreamReporter renders messages.
type Format string

const (
	// FormatText renders "[<elapsed> <source>:<level>] <message>" lines.
	FormatText Format = "text"

	// FormatJSON renders one slog JSON object per message.
	FormatJSON Format = "json"
)

// ParseFormat converts a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// StreamReporter renders diagnostic messages to an output stream, sending
// errors and warnings to a separate error stream.
type StreamReporter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	format Format
	start  time.Time
	now    func() time.Time

	jsonOut *slog.Logger
	jsonErr *slog.Logger
}

// NewStreamReporter creates a reporter writing to out and errOut.
func NewStreamReporter(out, errOut io.Writer, format Format) *StreamReporter {
	r := &StreamReporter{
		out:    out,
		errOut: errOut,
		format: format,
		now:    time.Now,
	}
	r.start = r.now()
	if format == FormatJSON {
		// Filtering is the subscriber's job; the handler accepts everything.
		opts := &slog.HandlerOptions{Level: slog.LevelDebug - 4}
		r.jsonOut = slog.New(slog.NewJSONHandler(out, opts))
		r.jsonErr = slog.New(slog.NewJSONHandler(errOut, opts))
	}
	return r
}

// Report renders one message. It has the Delegate signature.
func (r *StreamReporter) Report(source string, level LogLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.format == FormatJSON {
		logger := r.jsonOut
		if level <= LevelWarn {
			logger = r.jsonErr
		}
		logger.LogAttrs(context.Background(), level.SlogLevel(), message,
			slog.String("source", source),
			slog.Int("verbosity", int(level)),
		)
		return
	}

	destination := r.out
	prefix := ""
	switch {
	case level <= LevelError:
		destination = r.errOut
		prefix = "error: "
	case level == LevelWarn:
		destination = r.errOut
		prefix = "warning: "
	}
	elapsed := r.now().Sub(r.start).Seconds()
	fmt.Fprintf(destination, "[%.6f %s:%d] %s%s\n", elapsed, source, int(level), prefix, message)
}
