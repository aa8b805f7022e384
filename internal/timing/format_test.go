package timing

import (
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	mock_timing "exectimer/internal/timing/mock"
)

func TestLabel(t *testing.T) {
	cases := map[string]struct {
		name   string
		expect string
	}{
		"single letter":     {name: "a", expect: "A"},
		"space":             {name: "db query", expect: "Db_query"},
		"comma and semi":    {name: "x,y;z", expect: "X_y_z"},
		"already capital":   {name: "Render", expect: "Render"},
		"leading separator": {name: " cache", expect: "_cache"},
		"digits kept":       {name: "step2", expect: "Step2"},
		"empty":             {name: "", expect: ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expect, Label(tc.name))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	r, clk := newFakeRegistry()
	require.Equal(t, "", r.FormatSummary())

	r.Start("a")
	clk.Step(50 * time.Millisecond)
	require.NoError(t, r.Stop("a"))

	require.True(t, strings.HasPrefix(r.FormatSummary(), `a;dur=50.00;desc="A"`))
}

func TestFormatSummary_TwoTimers(t *testing.T) {
	r, clk := newFakeRegistry()

	r.Start("req")
	r.Start("db")
	clk.Step(1234567 * time.Nanosecond)
	require.NoError(t, r.Stop("db"))
	clk.Step(3 * time.Millisecond)
	require.NoError(t, r.Stop("req"))
	r.Start("pending")

	require.Equal(t, `db;dur=1.23;desc="Db", req;dur=4.23;desc="Req"`, r.FormatSummary())
}

func TestFormatSummary_MemoryTracking(t *testing.T) {
	ctrl := gomock.NewController(t)
	sampler := mock_timing.NewMockMemorySampler(ctrl)
	gomock.InOrder(
		sampler.EXPECT().Usage().Return(uint64(0)),
		sampler.EXPECT().Usage().Return(uint64(1536)),
	)
	sampler.EXPECT().Peak().Return(uint64(2 * bytesInMiB))

	r, clk := newFakeRegistry(WithMemoryTracking(sampler))
	r.Start("test2")
	clk.Step(300 * time.Millisecond)
	require.NoError(t, r.Stop("test2"))

	require.Equal(t, `test2;dur=300.00;desc="Memory Usage: 1.50 KB, Peak Memory: 2048.00 KB"`, r.FormatSummary())
}

func TestMemoryUsageHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	sampler := mock_timing.NewMockMemorySampler(ctrl)
	sampler.EXPECT().Usage().Return(uint64(3 * bytesInMiB / 2))
	sampler.EXPECT().Peak().Return(uint64(4 * bytesInMiB))

	r := NewRegistry(WithMemoryTracking(sampler))
	require.Equal(t, "Current: 1.50 MB; Peak: 4.00 MB", r.MemoryUsageHeader())
}
