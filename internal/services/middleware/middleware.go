package middleware

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"exectimer/internal/services/metrics"
	"exectimer/internal/timing"
)

// ServerTiming gives every request its own timing registry, reachable from
// handlers through timing.FromContext. The registry opens totalTimer before the
// handler runs and the Server-Timing header is emitted right before the
// response header is written.
//
// The registry is not safe for concurrent use. Handlers that time work on
// other goroutines must serialize their registry calls.
func ServerTiming(log logrus.FieldLogger, newRegistry func() *timing.Registry, totalTimer string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			registry := newRegistry()
			registry.Start(totalTimer)

			reqLog := log.WithFields(logrus.Fields{
				"request_id": uuid.New().String(),
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			rw := &responseWriter{
				ResponseWriter: w,
				registry:       registry,
				totalTimer:     totalTimer,
				log:            reqLog,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r.WithContext(timing.NewContext(r.Context(), registry)))

			// Handlers that never write still get their header.
			if !rw.wroteHeader {
				rw.WriteHeader(http.StatusOK)
			}

			metrics.Requests.WithLabelValues(strconv.Itoa(rw.statusCode)).Inc()
			reqLog.WithFields(logrus.Fields{
				"status":        rw.statusCode,
				"server_timing": rw.Header().Get(timing.HeaderServerTiming),
			}).Debug("request served")
		})
	}
}

// responseWriter implements timing.HeaderWriter on top of the wrapped writer.
type responseWriter struct {
	http.ResponseWriter
	registry    *timing.Registry
	totalTimer  string
	log         logrus.FieldLogger
	statusCode  int
	wroteHeader bool
}

var _ timing.HeaderWriter = (*responseWriter)(nil)

func (rw *responseWriter) HeadersSent() bool {
	return rw.wroteHeader
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		rw.ResponseWriter.WriteHeader(code)
		return
	}

	rw.emit()
	rw.wroteHeader = true
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) emit() {
	// The handler may have closed the total timer on its own.
	_ = rw.registry.Stop(rw.totalTimer)

	if err := rw.registry.EmitHeader(rw); err != nil {
		metrics.HeaderEmitErrors.Inc()
		rw.log.WithError(err).Warn("emitting server timing header")
		return
	}

	if rw.Header().Get(timing.HeaderServerTiming) != "" {
		metrics.HeadersEmitted.Inc()
	}
}
