package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
)

func newTestRefresher(t *testing.T, server *httptest.Server) *Refresher {
	t.Helper()
	refresher, err := NewRefresher(server.Client(), server.URL, zerolog.Nop())
	require.NoError(t, err)
	return refresher
}

func TestRefresherSuccess(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"device_id":     r.Form.Get("device_id"),
			"device_os":     r.Form.Get("device_os"),
			"grant_type":    r.Form.Get("grant_type"),
			"refresh_token": r.Form.Get("refresh_token"),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at2",
			"refresh_token": "rt2",
			"expires_in":    3600,
		})
	}))
	defer server.Close()

	refresher := newTestRefresher(t, server)

	pair, err := refresher.Refresh(context.Background(), "rt1", "dev1")
	require.NoError(t, err)

	assert.Equal(t, "at2", pair.AccessToken)
	assert.Equal(t, "rt2", pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	assert.Equal(t, map[string]string{
		"device_id":     "dev1",
		"device_os":     "web",
		"grant_type":    "refresh_token",
		"refresh_token": "rt1",
	}, gotForm)
}

func TestRefresherRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	refresher := newTestRefresher(t, server)

	_, err := refresher.Refresh(context.Background(), "stale", "dev1")

	var authErr *pkgerrs.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, pkgerrs.AuthInvalidCredentials, authErr.Kind)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "invalid_grant")
}

func TestRefresherMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	refresher := newTestRefresher(t, server)

	_, err := refresher.Refresh(context.Background(), "rt1", "dev1")

	var authErr *pkgerrs.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, pkgerrs.AuthDecode, authErr.Kind)
}

func TestRefresherEmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"refresh_token":"rt2","expires_in":3600}`))
	}))
	defer server.Close()

	refresher := newTestRefresher(t, server)

	_, err := refresher.Refresh(context.Background(), "rt1", "dev1")

	var authErr *pkgerrs.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, pkgerrs.AuthDecode, authErr.Kind)
}

func TestRefresherNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	refresher, err := NewRefresher(nil, server.URL, zerolog.Nop())
	require.NoError(t, err)

	_, err = refresher.Refresh(context.Background(), "rt1", "dev1")

	var authErr *pkgerrs.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, pkgerrs.AuthNetwork, authErr.Kind)
}

func TestRefresherBadBaseURL(t *testing.T) {
	_, err := NewRefresher(nil, "://bad", zerolog.Nop())

	var cfgErr *pkgerrs.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
