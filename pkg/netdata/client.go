package netdata

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// FormatJSON asks the agent for the flat JSON export.
	FormatJSON = "json"
	// FormatPrometheus asks for prometheus exposition text instead.
	FormatPrometheus = "prometheus"

	allmetricsPath = "/api/v1/allmetrics"

	// Netdata payloads for busy hosts run to a few MB; anything past this
	// is not a metrics export.
	maxBodyBytes = 32 << 20
)

// Fetcher is the transport seam the poller consumes. Implementations may
// fail with an ordinary transport error, in which case the previous cycle's
// records stay visible, or with a DecodeError, which counts as an empty
// scrape.
type Fetcher interface {
	Fetch(ctx context.Context) (Payload, error)
}

// Client fetches allmetrics payloads from one netdata server.
type Client struct {
	http   *http.Client
	url    string
	format string
}

// NewClient builds a client for the given base URL, e.g.
// http://localhost:19999.
func NewClient(baseURL, format string, timeout time.Duration) *Client {
	if format == "" {
		format = FormatJSON
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		url:    strings.TrimRight(baseURL, "/") + allmetricsPath + "?format=" + format,
		format: format,
	}
}

// Fetch performs one GET against the allmetrics endpoint and decodes the
// body according to the configured format.
func (c *Client) Fetch(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching allmetrics")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading allmetrics body")
	}
	if res.StatusCode >= 300 {
		return nil, errors.Errorf("netdata returned status %d for %s", res.StatusCode, c.url)
	}

	if c.format == FormatPrometheus {
		return DecodePrometheusText(body)
	}
	return DecodePayload(body)
}
