package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"exectimer/internal/config"
	"exectimer/internal/timing"
)

const roundtripTimer = "roundtrip"

// Client fetches a URL and decodes the timing headers of the response.
type Client interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

type Result struct {
	URL        string
	StatusCode int
	// Roundtrip is measured on the client side, in milliseconds.
	Roundtrip   float64
	Metrics     []timing.Metric
	MemoryUsage string
}

// StatusError is returned for responses with a status code above 399.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("probe request error: url=%q status_code=%d body=%s", e.URL, e.StatusCode, e.Body)
}

func NewClient(log logrus.FieldLogger, rest *resty.Client) Client {
	return &client{
		log:  log,
		rest: rest,
	}
}

// NewDefaultRestyClient configures a default instance of the resty.Client used to do HTTP requests.
func NewDefaultRestyClient(cfg config.Probe) *resty.Client {
	restyClient := resty.NewWithClient(&http.Client{
		Timeout:   cfg.Timeout,
		Transport: createHTTPTransport(),
	})
	restyClient.SetRetryCount(cfg.RetryCount)

	return restyClient
}

func createHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

type client struct {
	log  logrus.FieldLogger
	rest *resty.Client
}

func (c *client) Fetch(ctx context.Context, url string) (*Result, error) {
	log := c.log.WithField("url", url)
	log.Debugf("probing")

	reg := timing.NewRegistry()
	reg.Start(roundtripTimer)

	resp, err := c.rest.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if err := reg.Stop(roundtripTimer); err != nil {
		return nil, err
	}
	roundtrip, err := reg.Duration(roundtripTimer)
	if err != nil {
		return nil, err
	}

	log = log.WithFields(logrus.Fields{
		"status_code":  resp.StatusCode(),
		"roundtrip_ms": roundtrip,
	})

	if resp.StatusCode() > 399 {
		log.Warn("probe failed")
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	metrics, err := timing.ParseServerTiming(resp.Header().Values(timing.HeaderServerTiming)...)
	if err != nil {
		return nil, fmt.Errorf("decoding %s header: %w", timing.HeaderServerTiming, err)
	}

	log.WithField("metrics", len(metrics)).Debug("probe completed")

	return &Result{
		URL:         url,
		StatusCode:  resp.StatusCode(),
		Roundtrip:   roundtrip,
		Metrics:     metrics,
		MemoryUsage: resp.Header().Get(timing.HeaderMemoryUsage),
	}, nil
}
