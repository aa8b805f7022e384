package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"exectimer/internal/config"
	"exectimer/internal/timing"
)

// NewLogger builds the command logger from configuration.
func NewLogger(cfg config.Config) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.Level(cfg.Log.Level))
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger.WithField("version", config.VersionInfo.Version)
}

// RegistryFactory returns a constructor for registries configured by cfg.
// Registries share the memory sampler but nothing else.
func RegistryFactory(cfg config.Timing) (func() *timing.Registry, error) {
	var opts []timing.Option
	if cfg.TrackMemory {
		sampler, err := timing.NewMemorySampler(cfg.MemorySource)
		if err != nil {
			return nil, fmt.Errorf("creating memory sampler: %w", err)
		}
		opts = append(opts, timing.WithMemoryTracking(sampler))
	}

	return func() *timing.Registry {
		return timing.NewRegistry(opts...)
	}, nil
}
