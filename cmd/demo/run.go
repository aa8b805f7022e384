package demo

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"exectimer/cmd/utils"
	"exectimer/internal/config"
	"exectimer/internal/timing"
)

func run(ctx context.Context, out io.Writer) error {
	cfg := config.Get()
	log := utils.NewLogger(cfg)

	newRegistry, err := utils.RegistryFactory(cfg.Timing)
	if err != nil {
		return err
	}
	reg := newRegistry()

	log.WithFields(logrus.Fields{
		"sleep":        sleep,
		"allocations":  allocations,
		"track_memory": reg.MemoryTracking(),
	}).Info("running demo workload")

	if err := workload(ctx, reg, sleep, allocations); err != nil {
		return err
	}

	return printReport(out, reg)
}

func workload(ctx context.Context, reg *timing.Registry, sleep time.Duration, allocations int) error {
	reg.Start("test1")
	if err := reg.Stop("test1"); err != nil {
		return err
	}

	reg.Start("test2")
	select {
	case <-time.After(sleep):
	case <-ctx.Done():
		return ctx.Err()
	}

	chunks := make([]string, 0, allocations)
	for i := 0; i < allocations; i++ {
		chunks = append(chunks, strings.Repeat("a", 512))
	}

	if err := reg.Stop("test2"); err != nil {
		return err
	}
	runtime.KeepAlive(chunks)

	return nil
}

func printReport(out io.Writer, reg *timing.Registry) error {
	table := tablewriter.NewWriter(out)
	if reg.MemoryTracking() {
		table.Header("Timer", "Duration (ms)", "Memory (KB)", "Peak (KB)")
	} else {
		table.Header("Timer", "Duration (ms)")
	}

	for _, name := range reg.DurationNames() {
		d, err := reg.Duration(name)
		if err != nil {
			return err
		}
		row := []any{name, fmt.Sprintf("%.2f", d)}
		if reg.MemoryTracking() {
			row = append(row,
				fmt.Sprintf("%.2f", reg.MemoryUsageKB(name)),
				fmt.Sprintf("%.2f", reg.PeakMemoryKB(name)),
			)
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s: %s\n", timing.HeaderServerTiming, reg.FormatSummary())
	if usage := reg.MemoryUsageHeader(); usage != "" {
		fmt.Fprintf(out, "%s: %s\n", timing.HeaderMemoryUsage, usage)
	}
	return nil
}
