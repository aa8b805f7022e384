package timing

import (
	"context"
	"net/http"
)

const (
	HeaderServerTiming = "Server-Timing"
	HeaderMemoryUsage  = "X-Memory-Usage"
)

// HeaderWriter is the part of an HTTP response the registry writes to. The
// hosting layer decides when the header phase is over.
type HeaderWriter interface {
	Header() http.Header
	HeadersSent() bool
}

// EmitHeader sets the Server-Timing header, and X-Memory-Usage when memory is
// tracked. Nothing is written when no timer has been stopped.
func (r *Registry) EmitHeader(w HeaderWriter) error {
	if w.HeadersSent() {
		return ErrHeadersAlreadySent
	}

	summary := r.FormatSummary()
	if summary == "" {
		return nil
	}

	w.Header().Set(HeaderServerTiming, summary)
	if usage := r.MemoryUsageHeader(); usage != "" {
		w.Header().Set(HeaderMemoryUsage, usage)
	}
	return nil
}

type contextKey struct{}

func NewContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the registry installed by the timing middleware.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(contextKey{}).(*Registry)
	return r, ok
}
