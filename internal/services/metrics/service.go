package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "exectimer"
	subsystem = "server"
	labelCode = "code"
)

var (
	Registry = prometheus.NewRegistry()

	Requests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "Number of requests served through the timing middleware.",
	}, []string{labelCode})

	HeadersEmitted = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "headers_emitted_total",
		Help:      "Number of responses that carried a Server-Timing header.",
	})

	HeaderEmitErrors = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "header_emit_errors_total",
		Help:      "Number of Server-Timing headers that could not be emitted.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
