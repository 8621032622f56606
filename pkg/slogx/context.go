package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type (
	loggerKey  struct{}
	requestKey struct{}
)

// requestAttrs collects attributes added with With while a request is in
// flight, so the access line written by HTTPMiddleware carries them too.
type requestAttrs struct {
	mu    sync.Mutex
	attrs []any
}

func (ra *requestAttrs) add(args ...any) {
	ra.mu.Lock()
	ra.attrs = append(ra.attrs, args...)
	ra.mu.Unlock()
}

func (ra *requestAttrs) snapshot() []any {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	return append([]any(nil), ra.attrs...)
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// With enriches the contextual logger with args, e.g. once the tenant and
// principal of a request are known. Inside HTTPMiddleware the args are also
// added to the request's access line.
func With(ctx context.Context, args ...any) context.Context {
	if ra, ok := ctx.Value(requestKey{}).(*requestAttrs); ok {
		ra.add(args...)
	}
	return WithContext(ctx, FromContext(ctx).With(args...))
}
