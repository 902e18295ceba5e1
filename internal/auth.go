package internal

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
)

const refreshEndpointPath = "oauth/token/"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenPair is the result of a successful token refresh. RefreshToken may
// rotate on each refresh; ExpiresIn is informational only, since expiry is
// detected reactively via the auth-expiry signal rather than tracked.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Refresher exchanges a refresh token + device id for a new access token at
// the platform's token endpoint. Writing the result back into the credential
// store is the caller's job.
type Refresher struct {
	client   *http.Client
	tokenURL *url.URL
	logger   zerolog.Logger
}

// NewRefresher creates a refresher against the given auth base URL.
// If a nil httpClient is provided, http.DefaultClient will be used.
func NewRefresher(httpClient *http.Client, authBaseURL string, logger zerolog.Logger) (*Refresher, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(authBaseURL)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "AuthURL", Message: "failed to parse auth base URL: " + err.Error()}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	tokenURL, err := parsedURL.Parse(refreshEndpointPath)
	if err != nil {
		return nil, &pkgerrs.ConfigError{Field: "AuthURL", Message: "failed to resolve token endpoint: " + err.Error()}
	}

	return &Refresher{
		client:   httpClient,
		tokenURL: tokenURL,
		logger:   logger,
	}, nil
}

// Refresh calls the token endpoint with the given device id and refresh
// token. A non-success status is reported as invalid credentials, a transport
// failure as a network error, and an unparsable body as a decode error.
func (r *Refresher) Refresh(ctx context.Context, refreshToken, deviceID string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("device_id", deviceID)
	form.Set("device_os", "web")
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &pkgerrs.AuthError{Kind: pkgerrs.AuthNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.AuthError{Kind: pkgerrs.AuthNetwork, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.AuthError{
			Kind:       pkgerrs.AuthNetwork,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Debug().Int("status", resp.StatusCode).Msg("token refresh rejected")
		return nil, &pkgerrs.AuthError{
			Kind:       pkgerrs.AuthInvalidCredentials,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var pair TokenPair
	if err := jsonAPI.Unmarshal(bodyBytes, &pair); err != nil {
		return nil, &pkgerrs.AuthError{
			Kind:       pkgerrs.AuthDecode,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        err,
		}
	}

	if pair.AccessToken == "" {
		return nil, &pkgerrs.AuthError{
			Kind:       pkgerrs.AuthDecode,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	r.logger.Debug().Msg("token refresh succeeded")
	return &pair, nil
}
