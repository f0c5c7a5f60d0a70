package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// LineHandler is a slog.Handler that renders each record as a single
// line in metasys's own on-disk log format:
//
//	YYYY-MM-DD HH:MM:SS <message> [key=value ...]
//
// Call sites still use ordinary structured slog calls; the attributes
// are rendered inline after the message rather than dropped, so the
// file stays a single self-describing line per record.
type LineHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	attrs []slog.Attr
}

// NewLineHandler creates a LineHandler writing to out.
func NewLineHandler(out io.Writer) *LineHandler {
	return &LineHandler{mu: &sync.Mutex{}, out: out}
}

func (h *LineHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &LineHandler{mu: h.mu, out: h.out, attrs: merged}
}

func (h *LineHandler) WithGroup(string) slog.Handler {
	// Groups aren't represented in the flat on-disk format; attributes
	// logged within a group still render, just without the prefix.
	return h
}
