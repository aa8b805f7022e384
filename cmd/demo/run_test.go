package demo

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"exectimer/internal/timing"
)

func TestWorkload(t *testing.T) {
	reg := timing.NewRegistry()

	require.NoError(t, workload(context.Background(), reg, 20*time.Millisecond, 10))

	require.Equal(t, []string{"test1", "test2"}, reg.DurationNames())
	require.Empty(t, reg.TimerNames())

	d, err := reg.Duration("test2")
	require.NoError(t, err)
	require.GreaterOrEqual(t, d, 15.0)
}

func TestWorkload_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := timing.NewRegistry()
	err := workload(ctx, reg, time.Hour, 10)

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"test2"}, reg.TimerNames())
}

func TestPrintReport(t *testing.T) {
	reg := timing.NewRegistry()
	reg.Start("test1")
	require.NoError(t, reg.Stop("test1"))

	var out bytes.Buffer
	require.NoError(t, printReport(&out, reg))

	require.Contains(t, out.String(), "test1")
	require.Contains(t, out.String(), `Server-Timing: test1;dur=`)
	require.NotContains(t, out.String(), "X-Memory-Usage")
}

func TestPrintReport_MemoryTracking(t *testing.T) {
	reg := timing.NewRegistry(timing.WithMemoryTracking(timing.RuntimeSampler{}))
	reg.Start("test2")
	require.NoError(t, reg.Stop("test2"))

	var out bytes.Buffer
	require.NoError(t, printReport(&out, reg))

	require.Contains(t, out.String(), `desc="Memory Usage: `)
	require.Contains(t, out.String(), "X-Memory-Usage: Current: ")
}
