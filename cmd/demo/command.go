package demo

import (
	"time"

	"github.com/spf13/cobra"

	"exectimer/cmd/utils"
)

const Use = "demo"

var (
	sleep       time.Duration
	allocations int
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   Use,
		Short: "Time a simulated script workload and print the Server-Timing summary",
		Long: `The demo command runs two timers the way a script would: "test1" wraps no work at all,
"test2" wraps a sleep followed by a burst of allocations. The resulting durations are printed
as a table together with the Server-Timing header the registry would emit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.BindTimingFlags(cmd.Flags()); err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&sleep, "sleep", 300*time.Millisecond, "Simulated processing time inside test2")
	cmd.Flags().IntVar(&allocations, "allocations", 100000, "Number of 512 byte strings allocated inside test2")
	utils.WithTimingFlags(cmd.Flags())

	return cmd
}
