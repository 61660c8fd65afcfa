package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Found 3 duplicate subtrees (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnAnalyzeStart(_ context.Context, scheme, traversal string, nodes int) {
	h.logger.Debug("analyze start", "scheme", scheme, "traversal", traversal, "nodes", nodes)
}

func (h *logHooks) OnAnalyzeComplete(_ context.Context, scheme, traversal string, groups int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("analyze failed", "scheme", scheme, "traversal", traversal, "err", err)
		return
	}
	h.logger.Debug("analyze done", "scheme", scheme, "traversal", traversal, "groups", groups, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("render start", "format", format, "nodes", nodes)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "format", format, "bytes", size, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "duration", d)
	}
}
