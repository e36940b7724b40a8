// Package ecfr is the fetch client for the eCFR public API: the title
// registry, the agency hierarchy, and per-title structure trees.
package ecfr

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/regscope/regscope/internal/cache"
	"github.com/regscope/regscope/internal/model"
	"github.com/regscope/regscope/internal/util"
)

const (
	titlesPath    = "/api/versioner/v1/titles.json"
	agenciesPath  = "/api/admin/v1/agencies.json"
	structurePath = "/api/versioner/v1/structure/%s/title-%d.json"
)

// ErrNotFound marks a 404 from the API (unknown title number or date)
var ErrNotFound = errors.New("resource not found")

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Limiter gates outbound requests; satisfied by worker.Limiter
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Client fetches eCFR datasets with a bounded-backoff retry policy.
// Transient failures (HTTP 429/5xx, network timeouts, refused or unresolved
// connections) are retried; everything else propagates immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxBytes   int64
	retry      model.RetryConfig
	limiter    Limiter
	robots     *RobotsChecker
	payloads   cache.Cache
}

// NewClient creates a client from the HTTP and retry configuration.
// limiter and payloads may be nil to disable rate limiting and caching.
func NewClient(cfg *model.Config, limiter Limiter, payloads cache.Cache) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		baseURL:   strings.TrimSuffix(cfg.HTTP.BaseURL, "/"),
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		retry:     cfg.Retry,
		limiter:   limiter,
		payloads:  payloads,
	}

	if cfg.HTTP.RespectRobots {
		c.robots = NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return c
}

// Titles fetches the flat CFR title registry
func (c *Client) Titles(ctx context.Context) ([]model.TitleEntry, error) {
	var envelope struct {
		Titles []model.TitleEntry `json:"titles"`
	}
	if err := c.getJSON(ctx, titlesPath, &envelope); err != nil {
		return nil, fmt.Errorf("fetch titles: %w", err)
	}
	return envelope.Titles, nil
}

// Agencies fetches the agency forest (top-level agencies with nested children)
func (c *Client) Agencies(ctx context.Context) ([]*model.Agency, error) {
	var envelope struct {
		Agencies []*model.Agency `json:"agencies"`
	}
	if err := c.getJSON(ctx, agenciesPath, &envelope); err != nil {
		return nil, fmt.Errorf("fetch agencies: %w", err)
	}
	return envelope.Agencies, nil
}

// TitleStructure fetches the structure tree of one title as of the given
// snapshot date (YYYY-MM-DD)
func (c *Client) TitleStructure(ctx context.Context, number int, date string) (*model.StructureNode, error) {
	var root model.StructureNode
	path := fmt.Sprintf(structurePath, date, number)
	if err := c.getJSON(ctx, path, &root); err != nil {
		return nil, fmt.Errorf("fetch structure for title %d: %w", number, err)
	}
	return &root, nil
}

// getJSON fetches a path and decodes the response, consulting the payload
// cache first and retrying transient failures with exponential backoff.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	key := cache.Key("payload", path)
	if c.payloads != nil {
		if data, found := c.payloads.Get(key); found {
			return json.Unmarshal(data, out)
		}
	}

	data, err := c.getWithRetry(ctx, path)
	if err != nil {
		return err
	}

	if c.payloads != nil {
		_ = c.payloads.Set(key, data, 0)
	}

	return json.Unmarshal(data, out)
}

// getWithRetry applies the bounded backoff policy around get
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	delay := c.retry.InitialDelay
	attempts := c.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			sleepFunc(delay)
			delay = time.Duration(float64(delay) * c.retry.Multiplier)
			if c.retry.MaxDelay > 0 && delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}
		}

		data, err := c.get(ctx, path)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// get performs a single request
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	rawURL := c.baseURL + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if c.robots != nil && !c.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

// statusError carries the HTTP status for retry classification
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.status)
}

// isRetryable reports whether an error is a transient failure worth another
// attempt: HTTP 429/5xx, or a network-class error
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || (se.code >= 500 && se.code < 600)
	}
	return isRetryableNetworkError(err.Error())
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "no such host")
}
