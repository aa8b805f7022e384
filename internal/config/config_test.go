package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	Reset()
	viper.Reset()
	t.Cleanup(func() {
		Reset()
		viper.Reset()
	})
}

func TestConfig_Defaults(t *testing.T) {
	resetConfig(t)

	cfg := Get()

	require.Equal(t, 4, cfg.Log.Level)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Server.StartupTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	require.Zero(t, cfg.Server.MemLimitRatio)
	require.Equal(t, 9876, cfg.HealthzPort)
	require.Equal(t, 9090, cfg.MetricsPort)
	require.Zero(t, cfg.PprofPort)
	require.False(t, cfg.Timing.TrackMemory)
	require.Equal(t, "runtime", cfg.Timing.MemorySource)
	require.Equal(t, "total", cfg.Timing.TotalTimer)
	require.Equal(t, 10*time.Second, cfg.Probe.Timeout)
	require.Equal(t, 3, cfg.Probe.RetryCount)
}

func TestConfig(t *testing.T) {
	resetConfig(t)

	t.Setenv("LOG_LEVEL", "5")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SERVER_MEMLIMIT_RATIO", "0.9")
	t.Setenv("HEALTHZ_PORT", "9000")
	t.Setenv("PPROF_PORT", "6060")
	t.Setenv("TIMING_TRACK_MEMORY", "true")
	t.Setenv("TIMING_MEMORY_SOURCE", "process")
	t.Setenv("TIMING_TOTAL_TIMER", "app")
	t.Setenv("PROBE_RETRY_COUNT", "1")

	cfg := Get()

	require.Equal(t, 5, cfg.Log.Level)
	require.Equal(t, 8081, cfg.Server.Port)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 0.9, cfg.Server.MemLimitRatio)
	require.Equal(t, 9000, cfg.HealthzPort)
	require.Equal(t, 6060, cfg.PprofPort)
	require.True(t, cfg.Timing.TrackMemory)
	require.Equal(t, "process", cfg.Timing.MemorySource)
	require.Equal(t, "app", cfg.Timing.TotalTimer)
	require.Equal(t, 1, cfg.Probe.RetryCount)
}

func TestConfig_Cached(t *testing.T) {
	resetConfig(t)

	t.Setenv("SERVER_PORT", "8082")
	require.Equal(t, 8082, Get().Server.Port)

	t.Setenv("SERVER_PORT", "8083")
	require.Equal(t, 8082, Get().Server.Port)
}

func TestConfig_Invalid(t *testing.T) {
	cases := map[string]struct {
		env map[string]string
	}{
		"unknown memory source": {
			env: map[string]string{"TIMING_MEMORY_SOURCE": "cgroup"},
		},
		"port out of range": {
			env: map[string]string{"METRICS_PORT": "70000"},
		},
		"log level out of range": {
			env: map[string]string{"LOG_LEVEL": "9"},
		},
		"memlimit ratio above one": {
			env: map[string]string{"SERVER_MEMLIMIT_RATIO": "1.5"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resetConfig(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			require.Panics(t, func() { Get() })
		})
	}
}
