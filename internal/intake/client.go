// Package intake pulls lead-capture form submissions from the marketing
// report API for an operator-selected date range.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/growthops/leadops-cli/internal/model"
)

// Source returns intake records for a date range. The pipeline treats
// it as read-only and pull-based.
type Source interface {
	Fetch(ctx context.Context, r model.DateRange) ([]model.IntakeRecord, error)
}

// envelope is the report API's response wrapper.
type envelope struct {
	Data []model.IntakeRecord `json:"data"`
}

// Option configures the client.
type Option func(*httpSource)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpSource) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpSource) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpSource struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an intake Source over the report API at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) Source {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c := &httpSource{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch pulls all intake records submitted within the range. A single
// synchronous call per operator action: no retry, failures surface to
// the caller.
func (c *httpSource) Fetch(ctx context.Context, r model.DateRange) ([]model.IntakeRecord, error) {
	if !r.IsValid() {
		return nil, eris.Errorf("intake: invalid date range %s", r)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "intake: rate limit")
		}
	}

	url := fmt.Sprintf("%s?startdate=%s&enddate=%s",
		c.baseURL, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "intake: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "intake: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("intake: unexpected status %d: %s", resp.StatusCode, body)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, eris.Wrap(err, "intake: decode response")
	}

	zap.L().Debug("intake fetch complete",
		zap.String("range", r.String()),
		zap.Int("records", len(env.Data)),
	)
	return env.Data, nil
}
