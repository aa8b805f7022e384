package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exectimer/internal/config"
)

func TestHealthzProvider_CheckReadiness(t *testing.T) {
	cases := map[string]struct {
		setup       func(p *HealthzProvider)
		expectError string
	}{
		"fails when startup not started": {
			setup:       func(p *HealthzProvider) {},
			expectError: "server startup not started",
		},
		"fails when starting": {
			setup: func(p *HealthzProvider) {
				p.Starting()
			},
			expectError: "server not serving yet",
		},
		"passes when serving": {
			setup: func(p *HealthzProvider) {
				p.Starting()
				p.MarkServing()
			},
		},
		"fails when stopping": {
			setup: func(p *HealthzProvider) {
				p.Starting()
				p.MarkServing()
				p.MarkStopping()
			},
			expectError: "server is shutting down",
		},
		"restart clears stopping": {
			setup: func(p *HealthzProvider) {
				p.MarkServing()
				p.MarkStopping()
				p.Starting()
				p.MarkServing()
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			provider := NewHealthzProvider(config.Config{Server: config.Server{StartupTimeout: time.Second}}, log)
			tc.setup(provider)
			err := provider.CheckReadiness(&http.Request{})
			if tc.expectError == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
			}
		})
	}
}

func TestHealthzProvider_CheckLiveness(t *testing.T) {
	cases := map[string]struct {
		startupTimeout time.Duration
		setup          func(p *HealthzProvider)
		expectError    string
	}{
		"fails when not started": {
			setup:       func(p *HealthzProvider) {},
			expectError: "server not started",
		},
		"passes when starting within timeout": {
			startupTimeout: 5 * time.Second,
			setup: func(p *HealthzProvider) {
				p.Starting()
			},
		},
		"fails when startup exceeds timeout": {
			startupTimeout: time.Millisecond,
			setup: func(p *HealthzProvider) {
				p.Starting()
				time.Sleep(4 * time.Millisecond)
			},
			expectError: "server startup exceeded timeout",
		},
		"passes when serving after slow startup": {
			startupTimeout: time.Millisecond,
			setup: func(p *HealthzProvider) {
				p.Starting()
				time.Sleep(4 * time.Millisecond)
				p.MarkServing()
			},
		},
		"passes while stopping": {
			startupTimeout: time.Millisecond,
			setup: func(p *HealthzProvider) {
				p.Starting()
				p.MarkStopping()
				time.Sleep(4 * time.Millisecond)
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			provider := NewHealthzProvider(config.Config{Server: config.Server{StartupTimeout: tc.startupTimeout}}, log)
			tc.setup(provider)
			err := provider.CheckLiveness(&http.Request{})
			if tc.expectError == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
			}
		})
	}
}
