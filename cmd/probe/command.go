package probe

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const Use = "probe"

var url string

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   Use,
		Short: "Fetch a URL and print the Server-Timing metrics it returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/", "URL to probe")

	cmd.Flags().Duration("timeout", 0, "Request timeout, overrides probe.timeout")
	_ = viper.BindPFlag("probe.timeout", cmd.Flags().Lookup("timeout"))

	return cmd
}
