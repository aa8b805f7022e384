package health

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
)

// NewHandler routes the probe endpoints of the healthz server.
func NewHandler(provider *HealthzProvider, log logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/healthz").Handler(http.StripPrefix("/healthz", &healthz.Handler{Checks: map[string]healthz.Checker{
		"ping": healthz.Ping,
	}}))
	router.HandleFunc("/readyz", HealthCheckHandler(map[string]healthz.Checker{
		"server": provider.CheckReadiness,
	}, log))
	router.HandleFunc("/livez", HealthCheckHandler(map[string]healthz.Checker{
		"server": provider.CheckLiveness,
	}, log))
	return router
}

// HealthCheckHandler runs checks in name order and fails on the first error.
func HealthCheckHandler(checks map[string]healthz.Checker, log logrus.FieldLogger) http.HandlerFunc {
	names := lo.Keys(checks)
	slices.Sort(names)

	return func(w http.ResponseWriter, r *http.Request) {
		for _, name := range names {
			if err := checks[name](r); err != nil {
				log.WithField("check", name).Warnf("health check failed: %v", err)
				http.Error(w, fmt.Sprintf("%s check failed: %v", name, err), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
