package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
)

const apiVersionPrefix = "v1/"

// RateLimitConfig controls how requests are throttled before reaching the API.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 10
	secondsPerMinute         = 60.0
)

// Client executes authenticated requests against the versioned API.
//
// For every call it reads the current access token from the credential store,
// attaches it together with the fixed browser-like headers, sends the request
// and classifies the outcome. An auth-expiry signal triggers at most one
// token refresh followed by exactly one retry of the original request; every
// other failure is returned to the caller unretried.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	UserAgent string

	creds     *Store
	refresher *Refresher
	logger    zerolog.Logger

	// refreshMu serializes token refreshes so that concurrent auth-expiry
	// signals produce a single refresh call; see refreshAfterExpiry.
	refreshMu sync.Mutex

	limiter        *rate.Limiter
	mu             sync.Mutex
	forceWaitUntil time.Time
}

// NewClient returns a new API request executor.
// If a nil httpClient is provided, http.DefaultClient will be used.
func NewClient(httpClient *http.Client, creds *Store, refresher *Refresher, baseURL, userAgent string, rateCfg *RateLimitConfig, logger zerolog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: "failed to parse base URL: " + err.Error()}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}
	versionedURL, err := parsedURL.Parse(apiVersionPrefix)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "BaseURL", Message: "failed to resolve versioned base URL: " + err.Error()}
	}

	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	return &Client{
		client:    httpClient,
		BaseURL:   versionedURL,
		UserAgent: userAgent,
		creds:     creds,
		refresher: refresher,
		logger:    logger,
		limiter:   buildLimiter(*rateCfg),
	}, nil
}

// NewRequest creates an unauthenticated request template for the given API
// path, relative to the versioned base URL. The fixed browser-like headers
// are attached here; the Authorization header is attached per attempt inside
// Do, so that a retried request carries the refreshed token.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.NetworkError{Op: "build request for " + path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &pkgerrs.NetworkError{Op: "build request for " + path, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("DNT", "1")

	return req, nil
}

// authExpiredError is the internal classification of the auth-expiry signal.
// It never escapes Do; the retry protocol converts it into either a success,
// an UnauthorizedError, or an AuthFailedError.
type authExpiredError struct {
	endpoint string
}

func (e *authExpiredError) Error() string {
	return "auth expired for " + e.endpoint
}

// Do executes an authenticated request and returns the raw response body.
//
// The protocol is attempt, classify, optionally refresh-and-reattempt once:
//
//   - success: the body is returned.
//   - auth expiry with a refresh pair configured: one refresh, one retry,
//     and the retry's outcome is returned as-is.
//   - auth expiry without a refresh pair: UnauthorizedError, no retry.
//   - refresh failure: AuthFailedError, the original request is not retried.
//   - any other 4xx/5xx/transport failure: returned unretried.
//
// A request body must be rewindable (GetBody set, as http.NewRequest does for
// the common reader types) for the retry to replay it; otherwise the retry
// fails with a NetworkError instead of resending a consumed body.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	token, generation := c.creds.AccessToken()

	body, err := c.send(req, token)
	var expired *authExpiredError
	if !errors.As(err, &expired) {
		return body, err
	}

	if c.creds.Mode() != ModeRefreshPair {
		return nil, &pkgerrs.UnauthorizedError{Endpoint: expired.endpoint}
	}

	if err := c.refreshAfterExpiry(req.Context(), generation); err != nil {
		return nil, err
	}

	retry, err := cloneRequest(req)
	if err != nil {
		return nil, &pkgerrs.NetworkError{Op: "rebuild request for " + expired.endpoint, Err: err}
	}

	c.logger.Debug().Str("endpoint", expired.endpoint).Msg("retrying request with refreshed token")

	token, _ = c.creds.AccessToken()
	body, err = c.send(retry, token)
	if errors.As(err, &expired) {
		// The retry is not allowed to trigger another refresh.
		return nil, &pkgerrs.UnauthorizedError{Endpoint: expired.endpoint}
	}
	return body, err
}

// CanRefresh reports whether the credential store holds a refresh pair.
func (c *Client) CanRefresh() bool {
	return c.creds.Mode() == ModeRefreshPair
}

// ForceRefresh mints a new access token outside the 401 path. It is used for
// the payload-level "not available" signal, where a 200 response carries
// content the current token cannot unlock. The same single-flight guard
// applies: if another request refreshed the token in the meantime, the forced
// refresh is skipped.
func (c *Client) ForceRefresh(ctx context.Context) error {
	return c.refreshAfterExpiry(ctx, c.creds.Generation())
}

// refreshAfterExpiry performs at most one refresh for the token generation
// the caller observed failing. Concurrent callers serialize on refreshMu;
// whoever loses the race finds the generation already advanced and simply
// proceeds to retry with the fresh token.
func (c *Client) refreshAfterExpiry(ctx context.Context, observedGeneration uint64) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.creds.Generation() != observedGeneration {
		c.logger.Debug().Msg("token already refreshed by a concurrent request")
		return nil
	}

	refreshToken, deviceID, ok := c.creds.RefreshCredentials()
	if !ok {
		return &pkgerrs.UnauthorizedError{}
	}

	pair, err := c.refresher.Refresh(ctx, refreshToken, deviceID)
	if err != nil {
		var authErr *pkgerrs.AuthError
		if !errors.As(err, &authErr) {
			authErr = &pkgerrs.AuthError{Kind: pkgerrs.AuthNetwork, Err: err}
		}
		return &pkgerrs.AuthFailedError{Err: authErr}
	}

	return c.creds.InstallRefreshed(pair.AccessToken, pair.RefreshToken)
}

// send performs one outbound attempt and classifies the response.
func (c *Client) send(req *http.Request, token string) ([]byte, error) {
	endpoint := req.URL.Path

	if err := c.waitForRateLimit(req.Context()); err != nil {
		return nil, &pkgerrs.NetworkError{Op: req.Method + " " + endpoint, Err: err}
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.NetworkError{Op: req.Method + " " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.applyRetryAfter(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.NetworkError{Op: "read response for " + endpoint, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &authExpiredError{endpoint: endpoint}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode >= 500:
		return nil, &pkgerrs.ServerError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	default:
		return nil, &pkgerrs.RequestError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
	}
}

// cloneRequest duplicates a request for the single auth retry, rewinding the
// body via GetBody when one is present. A consumed body without GetBody cannot
// be replayed, so the retry is refused rather than resent empty.
func cloneRequest(req *http.Request) (*http.Request, error) {
	if req.Body != nil && req.GetBody == nil {
		return nil, errors.New("request body is not rewindable")
	}

	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

func (c *Client) waitForRateLimit(ctx context.Context) error {
	if err := c.waitForForcedDelay(ctx); err != nil {
		return err
	}

	if c.limiter == nil {
		return nil
	}

	return c.limiter.Wait(ctx)
}

func (c *Client) waitForForcedDelay(ctx context.Context) error {
	for {
		c.mu.Lock()
		waitUntil := c.forceWaitUntil
		c.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			c.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			c.clearForcedDelay(waitUntil)
		}
	}
}

func (c *Client) clearForcedDelay(previous time.Time) {
	c.mu.Lock()
	if previous.Equal(c.forceWaitUntil) {
		c.forceWaitUntil = time.Time{}
	}
	c.mu.Unlock()
}

// applyRetryAfter honors a Retry-After header by deferring subsequent
// requests, on top of the steady-state limiter.
func (c *Client) applyRetryAfter(resp *http.Response) {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return
	}

	seconds, err := strconv.ParseFloat(retryAfter, 64)
	if err != nil || seconds <= 0 {
		return
	}

	until := time.Now().Add(time.Duration(seconds * float64(time.Second)))

	c.mu.Lock()
	if until.After(c.forceWaitUntil) {
		c.forceWaitUntil = until
	}
	c.mu.Unlock()
}
