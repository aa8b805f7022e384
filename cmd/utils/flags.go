package utils

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func WithTimingFlags(flags *pflag.FlagSet) {
	flags.Bool("track-memory", false, "Sample memory usage on every timer start and stop")
	flags.String("memory-source", "runtime", "Memory source used when tracking memory (runtime, process)")
}

// BindTimingFlags binds the timing flags of the running command. Several
// commands define the same flags, so binding happens at run time.
func BindTimingFlags(flags *pflag.FlagSet) error {
	if err := viper.BindPFlag("timing.track_memory", flags.Lookup("track-memory")); err != nil {
		return err
	}
	return viper.BindPFlag("timing.memory_source", flags.Lookup("memory-source"))
}
