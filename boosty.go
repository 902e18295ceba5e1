package boosty

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/ath31st/boosty-api-go/internal"
	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
	"github.com/ath31st/boosty-api-go/pkg/types"
)

const (
	// DefaultBaseURL is the default Boosty API base URL.
	DefaultBaseURL = "https://api.boosty.to/"
	// DefaultAuthURL is the default base URL for the token-refresh endpoint.
	DefaultAuthURL = "https://api.boosty.to/"
	// DefaultUserAgent mimics a desktop browser; the platform serves the
	// same API to its web frontend.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the configuration for the Boosty client.
//
// All fields are optional; zero values fall back to the platform defaults.
// Credentials are not part of the configuration — they are installed after
// construction via SetBearerToken or SetRefreshPair and may be replaced at
// any time, including while requests are in flight.
type Config struct {
	// BaseURL for the Boosty API.
	// Defaults to DefaultBaseURL if not specified.
	BaseURL string

	// AuthURL for the token-refresh endpoint.
	// Defaults to DefaultAuthURL if not specified.
	AuthURL string

	// UserAgent string sent with every request.
	// Defaults to DefaultUserAgent if not specified.
	UserAgent string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// RateLimit throttles outbound requests.
	// Defaults to internal.DefaultRequestsPerMinute if nil.
	RateLimit *internal.RateLimitConfig

	// Logger for structured diagnostics.
	// Optional. If provided, refresh and retry decisions are logged at
	// debug level.
	Logger *zerolog.Logger
}

// Client is the Boosty API client. It is safe for concurrent use; the
// credential state is the only shared mutable resource and every access to
// it is synchronized.
type Client struct {
	http  *internal.Client
	creds *internal.Store
}

// NewClient creates a new Boosty client with the provided configuration.
// A nil config is equivalent to an empty one. The returned client holds no
// credentials; public content is reachable immediately, and protected
// content becomes reachable after SetBearerToken or SetRefreshPair.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authURL := config.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	creds := internal.NewStore()

	refresher, err := internal.NewRefresher(httpClient, authURL, logger)
	if err != nil {
		return nil, err
	}

	executor, err := internal.NewClient(httpClient, creds, refresher, baseURL, userAgent, config.RateLimit, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:  executor,
		creds: creds,
	}, nil
}

// SetBearerToken installs a static bearer token, replacing any previously
// configured credential. The refresh flow is disabled until SetRefreshPair
// is called again.
func (c *Client) SetBearerToken(token string) error {
	return c.creds.SetBearer(token)
}

// SetRefreshPair installs a refresh token and device id, replacing any
// previously configured credential. No token is fetched eagerly; the first
// access token is minted when a request observes an auth-expiry signal.
func (c *Client) SetRefreshPair(refreshToken, deviceID string) error {
	return c.creds.SetRefreshPair(refreshToken, deviceID)
}

// ClearCredentials drops all credentials; subsequent requests go out
// anonymous.
func (c *Client) ClearCredentials() {
	c.creds.Clear()
}

// CurrentAccessToken returns the access token that would be attached to the
// next request, or an empty string when none is available yet.
func (c *Client) CurrentAccessToken() string {
	token, _ := c.creds.AccessToken()
	return token
}

// GetPost retrieves a single post.
//
// When the response reports the content as not available and a refresh pair
// is configured, the client forces a token refresh and refetches once — an
// expired token and a genuinely restricted post are indistinguishable on the
// wire, so one refresh attempt settles which it is. A post that is still not
// available after the refetch is returned as-is.
func (c *Client) GetPost(ctx context.Context, blog, postID string) (*types.Post, error) {
	if blog == "" || postID == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog/postID", Message: "blog and postID are required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/post/" + url.PathEscape(postID)

	post, err := c.fetchPost(ctx, path)
	if err != nil {
		return nil, err
	}

	if post.NotAvailable() && c.http.CanRefresh() {
		if err := c.http.ForceRefresh(ctx); err != nil {
			return nil, err
		}
		return c.fetchPost(ctx, path)
	}

	return post, nil
}

func (c *Client) fetchPost(ctx context.Context, path string) (*types.Post, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var post types.Post
	if err := jsonAPI.Unmarshal(body, &post); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &post, nil
}

// GetPosts retrieves a page of a blog's posts. The same not-available policy
// as GetPost applies when any post on the page is inaccessible.
func (c *Client) GetPosts(ctx context.Context, blog string, request *types.PostsRequest) (*types.PostsResponse, error) {
	if blog == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog", Message: "blog is required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/post/"
	query := url.Values{}
	if request != nil {
		if request.Limit > 0 {
			query.Set("limit", strconv.Itoa(request.Limit))
		}
		if request.Offset != "" {
			query.Set("offset", request.Offset)
		}
	}

	page, err := c.fetchPosts(ctx, path, query)
	if err != nil {
		return nil, err
	}

	anyUnavailable := false
	for i := range page.Data {
		if page.Data[i].NotAvailable() {
			anyUnavailable = true
			break
		}
	}

	if anyUnavailable && c.http.CanRefresh() {
		if err := c.http.ForceRefresh(ctx); err != nil {
			return nil, err
		}
		return c.fetchPosts(ctx, path, query)
	}

	return page, nil
}

func (c *Client) fetchPosts(ctx context.Context, path string, query url.Values) (*types.PostsResponse, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page types.PostsResponse
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &page, nil
}

// GetComments retrieves a page of comments for a post, including nested
// reply pages up to the requested reply limit.
func (c *Client) GetComments(ctx context.Context, request *types.CommentsRequest) (*types.CommentsResponse, error) {
	if request == nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: "comments request cannot be nil"}
	}
	if request.Blog == "" || request.PostID == "" {
		return nil, &pkgerrs.ConfigError{Field: "Blog/PostID", Message: "blog and postID are required"}
	}

	path := "blog/" + url.PathEscape(request.Blog) + "/post/" + url.PathEscape(request.PostID) + "/comment/"
	query := url.Values{}
	if request.Limit > 0 {
		query.Set("limit", strconv.Itoa(request.Limit))
	}
	if request.ReplyLimit > 0 {
		query.Set("reply_limit", strconv.Itoa(request.ReplyLimit))
	}
	if request.Order != "" {
		query.Set("order", request.Order)
	}

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page types.CommentsResponse
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &page, nil
}

// GetSubscriptions retrieves the current user's subscriptions. Requires a
// credential with access to the user account.
func (c *Client) GetSubscriptions(ctx context.Context, request *types.SubscriptionsRequest) (*types.SubscriptionsResponse, error) {
	path := "user/subscriptions"
	query := url.Values{}
	if request != nil {
		if request.Limit > 0 {
			query.Set("limit", strconv.Itoa(request.Limit))
		}
		if request.WithFollow {
			query.Set("with_follow", "true")
		}
	}

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page types.SubscriptionsResponse
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &page, nil
}

// GetBlogTargets retrieves the funding targets of a blog.
func (c *Client) GetBlogTargets(ctx context.Context, blog string) ([]types.Target, error) {
	if blog == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog", Message: "blog is required"}
	}

	path := "target/" + url.PathEscape(blog) + "/"
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope types.TargetsResponse
	if err := jsonAPI.Unmarshal(body, &envelope); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return envelope.Data, nil
}

// GetSubscriptionLevels retrieves the subscription tiers of a blog,
// optionally including the free level.
func (c *Client) GetSubscriptionLevels(ctx context.Context, blog string, showFreeLevel bool) ([]types.SubscriptionLevel, error) {
	if blog == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog", Message: "blog is required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/subscription_level/"
	query := url.Values{}
	if showFreeLevel {
		query.Set("show_free_level", "true")
	}

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var envelope types.SubscriptionLevelsResponse
	if err := jsonAPI.Unmarshal(body, &envelope); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return envelope.Data, nil
}

// GetBlogTags retrieves the tags used by a blog.
func (c *Client) GetBlogTags(ctx context.Context, blog string) ([]types.Tag, error) {
	if blog == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog", Message: "blog is required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/tag/"
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope types.TagsResponse
	if err := jsonAPI.Unmarshal(body, &envelope); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return envelope.Data, nil
}

// SearchTags searches a blog's tags by title and returns the matches ranked
// by relevance, with a pagination cursor for further pages.
func (c *Client) SearchTags(ctx context.Context, blog, query string) (*types.SearchTagsResponse, error) {
	if blog == "" || query == "" {
		return nil, &pkgerrs.ConfigError{Field: "blog/query", Message: "blog and query are required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/tag/search/"
	params := url.Values{}
	params.Set("query", query)

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var page types.SearchTagsResponse
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &page, nil
}

// GetShowcase retrieves a page of a blog's showcase.
func (c *Client) GetShowcase(ctx context.Context, request *types.ShowcaseRequest) (*types.ShowcaseResponse, error) {
	if request == nil || request.Blog == "" {
		return nil, &pkgerrs.ConfigError{Field: "Blog", Message: "blog is required"}
	}

	path := "blog/" + url.PathEscape(request.Blog) + "/showcase/"
	query := url.Values{}
	if request.Offset > 0 {
		query.Set("offset", strconv.Itoa(request.Offset))
	}
	if request.Limit > 0 {
		query.Set("limit", strconv.Itoa(request.Limit))
	}
	if request.OnlyVisible != nil {
		query.Set("only_visible", strconv.FormatBool(*request.OnlyVisible))
	}

	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page types.ShowcaseResponse
	if err := jsonAPI.Unmarshal(body, &page); err != nil {
		return nil, &pkgerrs.DecodeError{Endpoint: path, Err: err}
	}
	return &page, nil
}

// SetShowcaseStatus enables or disables a blog's showcase. Only the blog
// owner's credential can change this.
func (c *Client) SetShowcaseStatus(ctx context.Context, blog string, enabled bool) error {
	if blog == "" {
		return &pkgerrs.ConfigError{Field: "blog", Message: "blog is required"}
	}

	path := "blog/" + url.PathEscape(blog) + "/showcase/status/"
	form := url.Values{}
	form.Set("is_enabled", strconv.FormatBool(enabled))

	req, err := c.http.NewRequest(ctx, http.MethodPut, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err = c.http.Do(req)
	return err
}

// get builds and executes an authenticated GET request for the given path.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.http.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.http.Do(req)
}
