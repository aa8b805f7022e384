package probe

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"exectimer/cmd/utils"
	"exectimer/internal/config"
	probeclient "exectimer/internal/probe"
)

func run(ctx context.Context, out io.Writer) error {
	cfg := config.Get()
	log := utils.NewLogger(cfg)

	client := probeclient.NewClient(log, probeclient.NewDefaultRestyClient(cfg.Probe))

	result, err := client.Fetch(ctx, url)
	if err != nil {
		return err
	}

	return printResult(out, result)
}

func printResult(out io.Writer, result *probeclient.Result) error {
	fmt.Fprintf(out, "%s -> %d in %.2f ms\n\n", result.URL, result.StatusCode, result.Roundtrip)

	if len(result.Metrics) == 0 {
		fmt.Fprintln(out, "No Server-Timing metrics returned")
	} else {
		table := tablewriter.NewWriter(out)
		table.Header("Metric", "Duration (ms)", "Description")
		for _, m := range result.Metrics {
			if err := table.Append(m.Name, fmt.Sprintf("%.2f", m.Duration), m.Description); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if result.MemoryUsage != "" {
		fmt.Fprintf(out, "\nMemory: %s\n", result.MemoryUsage)
	}
	return nil
}
