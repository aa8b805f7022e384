package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"exectimer/internal/timing"
)

type Config struct {
	Log         Log    `mapstructure:"log"`
	Server      Server `mapstructure:"server"`
	HealthzPort int    `mapstructure:"healthz_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	PprofPort   int    `mapstructure:"pprof_port"`
	Timing      Timing `mapstructure:"timing"`
	Probe       Probe  `mapstructure:"probe"`
}

type Log struct {
	Level int `mapstructure:"level"`
}

type Server struct {
	Port            int           `mapstructure:"port"`
	StartupTimeout  time.Duration `mapstructure:"startup_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MemLimitRatio is the share of the container memory limit used as
	// GOMEMLIMIT. Zero leaves the runtime default untouched.
	MemLimitRatio float64 `mapstructure:"memlimit_ratio"`
}

type Timing struct {
	TrackMemory  bool   `mapstructure:"track_memory"`
	MemorySource string `mapstructure:"memory_source"`
	TotalTimer   string `mapstructure:"total_timer"`
}

type Probe struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

var cfg *Config

// Get configuration bound to environment variables.
func Get() Config {
	if cfg != nil {
		return *cfg
	}

	viper.SetDefault("log.level", int(logrus.InfoLevel))
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.startup_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.memlimit_ratio", 0)
	viper.SetDefault("healthz_port", 9876)
	viper.SetDefault("metrics_port", 9090)
	viper.SetDefault("pprof_port", 0)
	viper.SetDefault("timing.track_memory", false)
	viper.SetDefault("timing.memory_source", timing.MemorySourceRuntime)
	viper.SetDefault("timing.total_timer", "total")
	viper.SetDefault("probe.timeout", 10*time.Second)
	viper.SetDefault("probe.retry_count", 3)

	bindEnvs(Config{})

	cfg = &Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("parsing configuration: %v", err))
	}

	if err := cfg.validate(); err != nil {
		panic(err)
	}

	return *cfg
}

// Reset is used only for unit testing to reset configuration and rebind variables.
func Reset() {
	cfg = nil
}

func (c *Config) validate() error {
	if c.Log.Level < int(logrus.PanicLevel) || c.Log.Level > int(logrus.TraceLevel) {
		return fmt.Errorf("log level must be between %d and %d, got %d", logrus.PanicLevel, logrus.TraceLevel, c.Log.Level)
	}

	for name, port := range map[string]int{
		"SERVER_PORT":  c.Server.Port,
		"HEALTHZ_PORT": c.HealthzPort,
		"METRICS_PORT": c.MetricsPort,
		"PPROF_PORT":   c.PprofPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("env variable %s must be a valid port, got %d", name, port)
		}
	}
	if c.Server.Port == 0 {
		required("SERVER_PORT")
	}

	if c.Server.MemLimitRatio < 0 || c.Server.MemLimitRatio > 1 {
		return fmt.Errorf("env variable SERVER_MEMLIMIT_RATIO must be between 0 and 1, got %v", c.Server.MemLimitRatio)
	}

	switch c.Timing.MemorySource {
	case timing.MemorySourceRuntime, timing.MemorySourceProcess:
	default:
		return fmt.Errorf("env variable TIMING_MEMORY_SOURCE must be %q or %q, got %q",
			timing.MemorySourceRuntime, timing.MemorySourceProcess, c.Timing.MemorySource)
	}
	if c.Timing.TotalTimer == "" {
		required("TIMING_TOTAL_TIMER")
	}

	return nil
}

func required(variable string) {
	panic(fmt.Errorf("env variable %s is required", variable))
}
