package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
	"github.com/yanqian/daily-briefing/pkg/metrics"
)

const maxErrorBody = 4 << 10

// RetryConfig controls optional retries of transient failures.
type RetryConfig struct {
	Enabled     bool
	MaxAttempts int
	BaseBackoff time.Duration
}

// Config describes one third-party provider.
type Config struct {
	Provider string
	APIKey   string
	// KeyParam is the query parameter carrying APIKey. Empty means no key is needed.
	KeyParam          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Retry             RetryConfig
}

// Client performs rate limited, timed GET requests returning raw JSON bodies.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient builds a provider caller.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BaseBackoff <= 0 {
		cfg.Retry.BaseBackoff = 200 * time.Millisecond
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger.With("component", "upstream.client", "provider", cfg.Provider),
	}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.cfg.Provider
}

// GetJSON issues a GET to endpoint with params and returns the body of a 2xx response.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	if c.cfg.KeyParam != "" {
		if strings.TrimSpace(c.cfg.APIKey) == "" {
			return nil, apperrors.Wrap(apperrors.CodeMissingCredential, c.cfg.Provider+" api key is not configured", nil)
		}
		query.Set(c.cfg.KeyParam, c.cfg.APIKey)
	}
	target := endpoint
	if encoded := query.Encode(); encoded != "" {
		target = endpoint + "?" + encoded
	}

	if !c.cfg.Retry.Enabled {
		return c.attempt(ctx, endpoint, target)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.Retry.BaseBackoff
	attempt := 0
	return backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		body, err := c.attempt(ctx, endpoint, target)
		if err == nil {
			return body, nil
		}
		if !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		c.logger.Warn("upstream request failed, retrying", "endpoint", endpoint, "attempt", attempt, "error", err)
		return nil, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(c.cfg.Retry.MaxAttempts)))
}

func (c *Client) attempt(ctx context.Context, endpoint, target string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, c.cfg.Provider+" rate limit wait aborted", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.cfg.Provider, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstream(c.cfg.Provider, apperrors.CodeNetwork, time.Since(start))
		return nil, apperrors.Wrap(apperrors.CodeNetwork, c.cfg.Provider+" request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 || resp.StatusCode < 200 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.RecordUpstream(c.cfg.Provider, apperrors.CodeUpstream, time.Since(start))
		c.logger.Warn("upstream returned error status", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, apperrors.Upstream(c.cfg.Provider, resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstream(c.cfg.Provider, apperrors.CodeNetwork, time.Since(start))
		return nil, apperrors.Wrap(apperrors.CodeNetwork, "read "+c.cfg.Provider+" response", err)
	}
	metrics.RecordUpstream(c.cfg.Provider, "ok", time.Since(start))
	c.logger.Debug("upstream request completed", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))
	return body, nil
}

func retryable(err error) bool {
	if apperrors.IsCode(err, apperrors.CodeNetwork) {
		return true
	}
	if upstream, ok := apperrors.AsUpstream(err); ok {
		return upstream.Status >= 500 || upstream.Status == http.StatusTooManyRequests
	}
	return false
}
