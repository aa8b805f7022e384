package serve

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"exectimer/internal/services/middleware"
	"exectimer/internal/timing"
)

const maxWork = 10 * time.Second

func newRouter(log logrus.FieldLogger, newRegistry func() *timing.Registry, totalTimer string) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.ServerTiming(log, newRegistry, totalTimer))

	router.HandleFunc("/", index).Methods(http.MethodGet)
	router.HandleFunc("/work/{duration}", work).Methods(http.MethodGet)

	return router
}

func index(w http.ResponseWriter, _ *http.Request) {
	_, _ = fmt.Fprintln(w, "exectimer: GET /work/{duration} to time a simulated workload")
}

// work sleeps for the requested duration inside a "work" timer and renders
// the answer inside a "render" timer.
func work(w http.ResponseWriter, r *http.Request) {
	d, err := time.ParseDuration(mux.Vars(r)["duration"])
	if err != nil || d < 0 || d > maxWork {
		http.Error(w, fmt.Sprintf("duration must be between 0 and %s", maxWork), http.StatusBadRequest)
		return
	}

	reg, ok := timing.FromContext(r.Context())
	if !ok {
		http.Error(w, "timing registry missing", http.StatusInternalServerError)
		return
	}

	reg.Start("work")
	select {
	case <-time.After(d):
	case <-r.Context().Done():
		http.Error(w, r.Context().Err().Error(), http.StatusServiceUnavailable)
		return
	}
	if err := reg.Stop("work"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	reg.Start("render")
	body := fmt.Sprintf("worked for %s\n", d)
	if err := reg.Stop("render"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprint(w, body)
}
