// Package restclient provides a pool of cached, rate-limited REST clients,
// one per (base URL, credential) pair, used to reach external API-backed
// data sources.
package restclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// AuthStyle selects how a client's credential is attached to outgoing
// requests.
type AuthStyle int

const (
	// AuthNone sends no credential header.
	AuthNone AuthStyle = iota
	// AuthAPIKeyHeader attaches the credential as x-api-key.
	AuthAPIKeyHeader
	// AuthBearer attaches the credential as Authorization: Bearer <token>.
	AuthBearer
)

var retryBackoff = []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}

// UpstreamError wraps the final failure of a request after all retries.
type UpstreamError struct {
	Method string
	Path   string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("rest request failed after retries: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrClosed is returned by a Client whose pool entry has been closed.
var ErrClosed = fmt.Errorf("restclient: client is closed")

// ClientOptions configures a pooled Client.
type ClientOptions struct {
	BaseURL        string
	Credential     string
	AuthStyle      AuthStyle
	CacheTTL       time.Duration
	CacheMaxSize   int
	Timeout        time.Duration
	RateLimitPerS  float64 // 0 disables rate limiting
	OnCacheHit     func()
	OnCacheMiss    func()
}

// Client is a single REST endpoint's reusable connection: an http.Client
// with an attached credential, a bounded TTL cache for GETs, and a
// single-flight guard collapsing concurrent identical GETs into one
// upstream call.
type Client struct {
	opts       ClientOptions
	httpClient *http.Client
	cache      *ttlCache
	sf         singleflight.Group
	limiter    *rate.Limiter

	mu     sync.RWMutex
	closed bool
}

func newClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RateLimitPerS > 0 {
		burst := int(opts.RateLimitPerS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitPerS), burst)
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: timeout},
		cache:      newTTLCache(opts.CacheMaxSize, opts.CacheTTL),
		limiter:    limiter,
	}
}

func (c *Client) url(path string) string {
	base := strings.TrimRight(c.opts.BaseURL, "/")
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

func (c *Client) applyAuth(req *http.Request) {
	switch c.opts.AuthStyle {
	case AuthAPIKeyHeader:
		if c.opts.Credential != "" {
			req.Header.Set("x-api-key", c.opts.Credential)
		}
	case AuthBearer:
		if c.opts.Credential != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Credential)
		}
	}
}

func cacheKey(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Get performs a GET against path with the given query params. Results are
// served from cache when useCache is true and a fresh entry exists;
// concurrent identical misses are collapsed via single-flight.
func (c *Client) Get(ctx context.Context, path string, params map[string]string, useCache bool) (any, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	key := cacheKey(path, params)
	if useCache {
		if v, ok := c.cache.Get(key); ok {
			if c.opts.OnCacheHit != nil {
				c.opts.OnCacheHit()
			}
			return v, nil
		}
		if c.opts.OnCacheMiss != nil {
			c.opts.OnCacheMiss()
		}
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		result, err := c.doWithRetry(ctx, http.MethodGet, path, params, nil)
		if err != nil {
			return nil, err
		}
		if useCache {
			c.cache.Set(key, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Post performs a POST with a JSON body. If invalidateCache is true the
// client's entire cache is cleared on success, matching the opt-in
// invalidation behavior callers request for mutating calls.
func (c *Client) Post(ctx context.Context, path string, body any, invalidateCache bool) (any, error) {
	return c.mutate(ctx, http.MethodPost, path, body, invalidateCache)
}

// Put performs a PUT with a JSON body, with the same invalidation option as Post.
func (c *Client) Put(ctx context.Context, path string, body any, invalidateCache bool) (any, error) {
	return c.mutate(ctx, http.MethodPut, path, body, invalidateCache)
}

// Delete performs a DELETE, with the same invalidation option as Post.
func (c *Client) Delete(ctx context.Context, path string, invalidateCache bool) (any, error) {
	return c.mutate(ctx, http.MethodDelete, path, nil, invalidateCache)
}

func (c *Client) mutate(ctx context.Context, method, path string, body any, invalidateCache bool) (any, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	result, err := c.doWithRetry(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if invalidateCache {
		c.cache.Clear()
	}
	return result, nil
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, params map[string]string, body any) (any, error) {
	var lastErr error
	for attempt := 0; attempt < len(retryBackoff); attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		result, err := c.doOnce(ctx, method, path, params, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt < len(retryBackoff) {
			select {
			case <-time.After(retryBackoff[attempt]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, &UpstreamError{Method: method, Path: path, Err: lastErr}
}

func (c *Client) doOnce(ctx context.Context, method, path string, params map[string]string, body any) (any, error) {
	fullURL := c.url(path)
	if len(params) > 0 {
		q := make([]string, 0, len(params))
		for k, v := range params {
			q = append(q, k+"="+v)
		}
		sort.Strings(q)
		fullURL = fullURL + "?" + strings.Join(q, "&")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("restclient: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("restclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restclient: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("restclient: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("received non-OK status %d from %s: %s", resp.StatusCode, fullURL, string(respBody))
	}

	var parsed any
	if err := sonic.Unmarshal(respBody, &parsed); err != nil {
		return string(respBody), nil
	}
	return parsed, nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Pool hands out one reusable Client per (base URL, credential) pair.
type Pool struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

// NewPool creates an empty client pool.
func NewPool(logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{logger: logger, clients: make(map[string]*Client)}
}

func poolKey(opts ClientOptions) string {
	return opts.BaseURL + "|" + opts.Credential
}

// Client returns the pooled Client for opts, creating it on first use.
func (p *Pool) Client(opts ClientOptions) *Client {
	key := poolKey(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[key]; ok {
		return c
	}
	c := newClient(opts)
	p.clients[key] = c
	p.logger.Debug("restclient: created pooled client", zap.String("base_url", opts.BaseURL))
	return c
}

// Close closes every client in the pool. Subsequent calls to a closed
// client return ErrClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.close()
	}
}
