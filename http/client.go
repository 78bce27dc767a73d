// Package http provides an implementation of aemsearch.RepositoryClient
// backed by the Sling JSON rendering of an AEM instance.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/venky7799/aemsearch"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout for a single HTTP request.
const DefaultTimeout = 10 * time.Second

// Ensure Client implements the repository interfaces at compile time.
var (
	_ aemsearch.RepositoryClient = (*Client)(nil)
	_ aemsearch.LocaleLister     = (*Client)(nil)
)

// Client talks to a repository over HTTP. Paths are appended to the base URL
// with Sling selectors: "{path}.json" for a single node and
// "{path}.{n}.json" for a subtree n levels deep.
type Client struct {
	baseURL     string
	client      *http.Client
	timeout     time.Duration
	limiter     *rate.Limiter
	retryDelays []time.Duration
	logf        LogFunc
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit limits outgoing requests to rps per second.
// Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays sets the backoff between attempts of a failed request.
// An empty slice disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is
// overwritten by the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRetryLogger sets a function called before each retry.
func WithRetryLogger(fn LogFunc) Option {
	return func(c *Client) {
		c.logf = fn
	}
}

// NewClient creates a Client for the repository at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		timeout:     DefaultTimeout,
		retryDelays: DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{}
	}
	c.client.Timeout = c.timeout

	return c
}

// NewClientFromConfig creates a Client from repository configuration.
func NewClientFromConfig(cfg aemsearch.RepositoryConfig, opts ...Option) *Client {
	base := []Option{
		WithTimeout(cfg.Timeout),
		WithRateLimit(cfg.RateLimit),
		WithRetryDelays(cfg.RetryDelays),
	}
	return NewClient(cfg.URL, append(base, opts...)...)
}

// Exists probes path. With includeInactive it issues a HEAD request for the
// node; otherwise it reads one level of the node to check its replication
// state.
func (c *Client) Exists(ctx context.Context, path string, includeInactive bool) (bool, error) {
	if includeInactive {
		err := c.head(ctx, path, c.url(path, ""))
		if aemsearch.ErrorCode(err) == aemsearch.ENOTFOUND {
			return false, nil
		}
		return err == nil, err
	}

	props, err := c.getJSON(ctx, path, c.url(path, "1"))
	if aemsearch.ErrorCode(err) == aemsearch.ENOTFOUND {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return isActive(props), nil
}

// ListChildren returns the descendants of path up to depth levels below it,
// sorted by path. One extra level is requested so the jcr:content of the
// deepest nodes is available for titles and replication state.
func (c *Client) ListChildren(ctx context.Context, path string, depth int, includeInactive bool) ([]*aemsearch.Node, error) {
	if depth <= 0 {
		return nil, nil
	}

	props, err := c.getJSON(ctx, path, c.url(path, strconv.Itoa(depth+1)))
	if err != nil {
		return nil, err
	}

	var nodes []*aemsearch.Node
	collectNodes(props, aemsearch.JoinPath(path), depth, func(n *aemsearch.Node) {
		if includeInactive || n.Active {
			nodes = append(nodes, n)
		}
	})
	slices.SortFunc(nodes, func(a, b *aemsearch.Node) int {
		return strings.Compare(a.Path, b.Path)
	})
	return nodes, nil
}

// Locales returns the sorted child names of path that look like locale
// codes.
func (c *Client) Locales(ctx context.Context, path string) ([]string, error) {
	props, err := c.getJSON(ctx, path, c.url(path, "1"))
	if err != nil {
		return nil, err
	}

	var locales []string
	for name, v := range props {
		if _, ok := v.(map[string]any); ok && aemsearch.IsLocaleCode(name) {
			locales = append(locales, name)
		}
	}
	slices.Sort(locales)
	return locales, nil
}

// url returns the request URL for path with an optional depth selector.
func (c *Client) url(path, selector string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/" + strings.Join(segments, "/")
	if selector != "" {
		u += "." + selector
	}
	return u + ".json"
}

// head issues a HEAD request with retries.
func (c *Client) head(ctx context.Context, path, u string) error {
	_, err := withRetry(ctx, c.retryDelays, c.logf, u, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, http.MethodHead, path, u)
	})
	return err
}

// getJSON issues a GET request with retries and decodes a JSON object.
func (c *Client) getJSON(ctx context.Context, path, u string) (map[string]any, error) {
	body, err := withRetry(ctx, c.retryDelays, c.logf, u, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, http.MethodGet, path, u)
	})
	if err != nil {
		return nil, err
	}

	var props map[string]any
	if err := json.Unmarshal(body, &props); err != nil {
		return nil, &aemsearch.RepositoryError{
			Kind: aemsearch.RepoUnknown,
			Path: path,
			Err:  fmt.Errorf("decoding %s: %w", u, err),
		}
	}
	return props, nil
}

// do performs one request and maps failures to repository errors.
func (c *Client) do(ctx context.Context, method, path, u string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(path, u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, path, err)
	}
	return body, nil
}

// statusError maps a non-200 response onto a repository error kind.
func statusError(path, u string, code int) error {
	kind := aemsearch.RepoUnknown
	switch {
	case code == http.StatusNotFound:
		kind = aemsearch.RepoNotFound
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		kind = aemsearch.RepoAccessDenied
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		kind = aemsearch.RepoTimeout
	}

	err := fmt.Errorf("HTTP %d for %s", code, u)
	if code >= 500 {
		err = fmt.Errorf("%w: HTTP %d for %s", errServerStatus, code, u)
	}
	return &aemsearch.RepositoryError{Kind: kind, Path: path, Err: err}
}

// transportError wraps a failed round trip. Cancellation of ctx is returned
// unchanged.
func transportError(ctx context.Context, path string, err error) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return ctx.Err()
	}

	kind := aemsearch.RepoUnknown
	var te interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
		kind = aemsearch.RepoTimeout
	}
	return &aemsearch.RepositoryError{
		Kind: kind,
		Path: path,
		Err:  fmt.Errorf("%w: %w", errTransport, err),
	}
}
