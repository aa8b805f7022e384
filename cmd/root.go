package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"exectimer/cmd/demo"
	"exectimer/cmd/probe"
	"exectimer/cmd/serve"
	"exectimer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "exectimer",
	Short:             "Named interval timing rendered as Server-Timing headers",
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
}

var cfgFile string

func preRun(_ *cobra.Command, _ []string) error {
	if cfgFile == "" {
		if e := os.Getenv("CONFIG_PATH"); e != "" {
			cfgFile = e
		}
	}

	if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Using config from a file", cfgFile)
		viper.SetConfigType("yaml")
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	return nil
}

func Execute(ctx context.Context) {
	rootCmd.Version = config.VersionInfo.Version

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("log-level", 4, "Log level (0-6)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")

	rootCmd.AddCommand(demo.NewCmd())
	rootCmd.AddCommand(serve.NewCmd())
	rootCmd.AddCommand(probe.NewCmd())
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
