package serve

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"exectimer/cmd/utils"
)

const Use = "serve"

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   Use,
		Short: "Run a demo HTTP server that answers every request with a Server-Timing header",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.BindTimingFlags(cmd.Flags()); err != nil {
				return err
			}
			return run(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8080, "Application server port")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	cmd.Flags().Int("healthz-port", 9876, "Healthz server port")
	_ = viper.BindPFlag("healthz_port", cmd.Flags().Lookup("healthz-port"))

	cmd.Flags().Int("metrics-port", 9090, "Metrics server port")
	_ = viper.BindPFlag("metrics_port", cmd.Flags().Lookup("metrics-port"))

	cmd.Flags().Int("pprof-port", 0, "Pprof server port, disabled when 0")
	_ = viper.BindPFlag("pprof_port", cmd.Flags().Lookup("pprof-port"))

	utils.WithTimingFlags(cmd.Flags())

	return cmd
}
