package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"exectimer/cmd/utils"
	"exectimer/internal/config"
	"exectimer/internal/services/health"
	"exectimer/internal/services/metrics"
)

const readHeaderTimeout = 10 * time.Second

type namedServer struct {
	name string
	srv  *http.Server
}

func run(ctx context.Context) error {
	cfg := config.Get()
	log := utils.NewLogger(cfg)

	log.Infof("running exectimer version: %v", config.VersionInfo)

	if cfg.Server.MemLimitRatio > 0 {
		setMemoryLimit(log, cfg.Server.MemLimitRatio)
	}

	newRegistry, err := utils.RegistryFactory(cfg.Timing)
	if err != nil {
		return err
	}

	healthz := health.NewHealthzProvider(cfg, log)
	healthz.Starting()

	servers := []namedServer{
		{name: "app", srv: newServer(cfg.Server.Port, newRouter(log, newRegistry, cfg.Timing.TotalTimer))},
		{name: "healthz", srv: newServer(cfg.HealthzPort, health.NewHandler(healthz, log))},
		{name: "metrics", srv: newServer(cfg.MetricsPort, promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))},
	}
	if cfg.PprofPort != 0 {
		servers = append(servers, namedServer{name: "pprof", srv: newServer(cfg.PprofPort, http.DefaultServeMux)})
	}

	return serve(ctx, log, servers, cfg.Server.ShutdownTimeout, healthz)
}

// serve runs every server until ctx is done or one of them fails, then shuts
// all of them down.
func serve(ctx context.Context, log logrus.FieldLogger, servers []namedServer, shutdownTimeout time.Duration, healthz *health.HealthzProvider) error {
	listeners := make([]net.Listener, 0, len(servers))
	for _, s := range servers {
		ln, err := net.Listen("tcp", s.srv.Addr)
		if err != nil {
			for _, l := range listeners {
				_ = l.Close()
			}
			return fmt.Errorf("%s server: %w", s.name, err)
		}
		listeners = append(listeners, ln)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range servers {
		s := s
		ln := listeners[i]
		g.Go(func() error {
			log.Infof("starting %s server on %s", s.name, ln.Addr())
			if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
	}
	healthz.MarkServing()

	g.Go(func() error {
		<-gctx.Done()
		healthz.MarkStopping()
		log.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("closing %s server: %w", s.name, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              portToServerAddr(port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func setMemoryLimit(log logrus.FieldLogger, ratio float64) {
	limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(ratio),
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	)
	if err != nil {
		log.Warnf("setting GOMEMLIMIT: %v", err)
		return
	}
	log.WithField("limit_bytes", limit).Info("GOMEMLIMIT set")
}

func portToServerAddr(port int) string {
	return fmt.Sprintf(":%d", port)
}
