package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/alis-is/setup-eli/internal/logger"
	"github.com/alis-is/setup-eli/internal/version"
)

const (
	// DefaultTimeout bounds a single HTTP exchange including the body.
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxRetries is the number of extra attempts after the first one.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the first retry delay.
	DefaultBaseDelay = 500 * time.Millisecond

	dnsRefreshInterval = 5 * time.Minute
	errorBodyLimit     = 1024
)

// AuthFunc returns the header to attach to a request for rawURL.
// Empty strings skip authentication.
type AuthFunc func(rawURL string) (headerName, headerValue string)

// Client performs GET requests with retries and per-host circuit breaking.
type Client struct {
	// http is the underlying HTTP client.
	http *http.Client
	// userAgent is sent with every request.
	userAgent string
	// maxRetries caps the number of retries of a transient failure.
	maxRetries uint64
	// baseDelay is the initial backoff interval.
	baseDelay time.Duration
	// authFn decorates requests with credentials.
	authFn AuthFunc
	// tripAfter is the consecutive failure count that opens a breaker.
	tripAfter int64
	// tempDir hosts downloads without an explicit destination; "" means os.TempDir.
	tempDir string

	// mu guards breakers.
	mu       sync.RWMutex
	breakers map[string]*circuit.Breaker

	// stopRefresh ends the DNS cache refresh loop.
	stopRefresh chan struct{}
	closeOnce   sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the DNS-caching HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the first retry delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAuthFunc sets the request credential provider.
func WithAuthFunc(fn AuthFunc) Option {
	return func(c *Client) {
		c.authFn = fn
	}
}

// WithTempDir sets where downloads without a destination are written.
func WithTempDir(dir string) Option {
	return func(c *Client) {
		c.tempDir = dir
	}
}

// WithBreakerThreshold sets the consecutive failure count that opens a host breaker.
func WithBreakerThreshold(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.tripAfter = n
		}
	}
}

// BearerToken authenticates requests to the listed hosts with token.
// Without hosts every request is authenticated. An empty token disables auth.
func BearerToken(token string, hosts ...string) AuthFunc {
	if token == "" {
		return nil
	}

	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		allowed[host] = struct{}{}
	}

	return func(rawURL string) (string, string) {
		if len(allowed) > 0 {
			parsed, err := url.Parse(rawURL)
			if err != nil {
				return "", ""
			}

			if _, ok := allowed[parsed.Hostname()]; !ok {
				return "", ""
			}
		}

		return "Authorization", "Bearer " + token
	}
}

// New creates a Client. Call Close to stop the DNS refresh loop.
func New(opts ...Option) *Client {
	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	c := &Client{
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           cachedDialer(resolver, dialer),
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent:   version.UserAgent(),
		maxRetries:  DefaultMaxRetries,
		baseDelay:   DefaultBaseDelay,
		tripAfter:   5,
		breakers:    make(map[string]*circuit.Breaker),
		stopRefresh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go refreshLoop(resolver, c.stopRefresh)

	return c
}

// Close stops background work. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.stopRefresh)
	})
}

func refreshLoop(resolver *dnscache.Resolver, stop <-chan struct{}) {
	ticker := time.NewTicker(dnsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			resolver.Refresh(true)
		}
	}
}

func cachedDialer(
	resolver *dnscache.Resolver,
	dialer *net.Dialer,
) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if dialErr == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("%s: %w", host, errNoAddress)
	}
}

// Get sends a GET request and returns the 2xx response.
// The caller must close the response body. Non-2xx responses become *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	if rawURL == "" {
		return nil, errEmptyURL
	}

	host := hostOf(rawURL)
	breaker := c.breaker(host)

	if !breaker.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = c.baseDelay
	schedule.MaxElapsedTime = 0
	schedule.Reset()

	retries := backoff.WithMaxRetries(schedule, c.maxRetries)

	for attempt := 1; ; attempt++ {
		resp, err := c.attempt(ctx, breaker, rawURL, header)
		if err == nil {
			return resp, nil
		}

		if ctx.Err() != nil || !retryable(err) {
			return nil, err
		}

		delay := retries.NextBackOff()
		if delay == backoff.Stop {
			return nil, err
		}

		logger.Debugf(ctx, "Request to %s failed (attempt %d): %v; retrying in %s", host, attempt, err, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// attempt performs one request through the host breaker.
// Only transient failures count against the breaker.
func (c *Client) attempt(
	ctx context.Context,
	breaker *circuit.Breaker,
	rawURL string,
	header http.Header,
) (*http.Response, error) {
	var (
		resp     *http.Response
		finalErr error
	)

	err := breaker.Call(func() error {
		var doErr error

		resp, doErr = c.do(ctx, rawURL, header)
		if doErr != nil && !retryable(doErr) {
			finalErr = doErr

			return nil
		}

		return doErr
	}, 0)

	switch {
	case finalErr != nil:
		return nil, finalErr
	case errors.Is(err, circuit.ErrBreakerOpen):
		return nil, fmt.Errorf("circuit breaker open for %s: %w", hostOf(rawURL), ErrUpstreamDown)
	case err != nil:
		return nil, err
	default:
		return resp, nil
	}
}

func (c *Client) do(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidRequest, err)
	}

	for name, values := range header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	req.Header.Set("User-Agent", c.userAgent)

	if c.authFn != nil {
		if name, value := c.authFn(rawURL); name != "" && value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	_ = resp.Body.Close()

	return nil, &StatusError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(body),
	}
}

// breaker returns the circuit breaker for host, creating it on first use.
func (c *Client) breaker(host string) *circuit.Breaker {
	c.mu.RLock()
	b, ok := c.breakers[host]
	c.mu.RUnlock()

	if ok {
		return b
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok = c.breakers[host]; ok {
		return b
	}

	reopen := backoff.NewExponentialBackOff()
	reopen.InitialInterval = 30 * time.Second
	reopen.MaxInterval = 5 * time.Minute
	reopen.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    reopen,
		ShouldTrip: circuit.ThresholdTripFunc(c.tripAfter),
	})
	c.breakers[host] = b

	return b
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}

	return parsed.Host
}
