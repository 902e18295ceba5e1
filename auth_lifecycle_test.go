package boosty

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
	"github.com/ath31st/boosty-api-go/pkg/types"
)

// End-to-end exercise of the refresh lifecycle through the public client:
// the first attempt goes out without a token and gets an expiry signal, the
// refresh endpoint mints a new pair, and the retried request succeeds with
// the fresh token installed.
func TestRefreshLifecycle(t *testing.T) {
	var postCalls, refreshCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token/":
			atomic.AddInt64(&refreshCalls, 1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "rt1", r.Form.Get("refresh_token"))
			assert.Equal(t, "dev1", r.Form.Get("device_id"))
			assert.Equal(t, "web", r.Form.Get("device_os"))
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600}`))

		case "/v1/blog/cool-blog/post/1":
			atomic.AddInt64(&postCalls, 1)
			if r.Header.Get("Authorization") != "Bearer at2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{
				"id": "1",
				"title": "Protected",
				"hasAccess": true,
				"data": [{"type":"text","modificator":"","content":"secret"}]
			}`))

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetRefreshPair("rt1", "dev1"))

	post, err := client.GetPost(context.Background(), "cool-blog", "1")
	require.NoError(t, err)

	assert.Equal(t, "Protected", post.Title)
	assert.Equal(t, int64(2), atomic.LoadInt64(&postCalls), "one attempt plus one retry")
	assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
	assert.Equal(t, "at2", client.CurrentAccessToken())
}

func TestRefreshLifecycleRefreshRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token/" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetRefreshPair("stale", "dev1"))

	_, err := client.GetPost(context.Background(), "cool-blog", "1")

	var authFailed *pkgerrs.AuthFailedError
	require.ErrorAs(t, err, &authFailed)
	assert.Equal(t, pkgerrs.AuthInvalidCredentials, authFailed.Err.Kind)
}

// A 200 whose body marks the post as not available is ambiguous: the token
// may be expired, or the post may be genuinely restricted. With a refresh
// pair configured the client forces one refresh and refetches.
func TestGetPostNotAvailableTriggersRefetch(t *testing.T) {
	var postCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token/" {
			w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600}`))
			return
		}

		atomic.AddInt64(&postCalls, 1)
		if r.Header.Get("Authorization") != "Bearer at2" {
			// Stale credential: 200 with the content stripped.
			w.Write([]byte(`{"id":"1","title":"Teaser only","hasAccess":false}`))
			return
		}
		w.Write([]byte(`{
			"id": "1",
			"title": "Full",
			"hasAccess": true,
			"data": [{"type":"text","modificator":"","content":"body"}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetRefreshPair("rt1", "dev1"))

	post, err := client.GetPost(context.Background(), "cool-blog", "1")
	require.NoError(t, err)

	assert.Equal(t, "Full", post.Title)
	assert.False(t, post.NotAvailable())
	assert.Equal(t, int64(2), atomic.LoadInt64(&postCalls))
}

func TestGetPostNotAvailableStaysNotAvailable(t *testing.T) {
	var postCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token/" {
			w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600}`))
			return
		}
		atomic.AddInt64(&postCalls, 1)
		// Genuinely restricted: still inaccessible with a fresh token.
		w.Write([]byte(`{"id":"1","title":"Members only","hasAccess":false}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetRefreshPair("rt1", "dev1"))

	post, err := client.GetPost(context.Background(), "cool-blog", "1")
	require.NoError(t, err)

	assert.True(t, post.NotAvailable())
	assert.Equal(t, int64(2), atomic.LoadInt64(&postCalls), "exactly one refetch, no loop")
}

func TestGetPostNotAvailableWithoutRefreshPair(t *testing.T) {
	var postCalls, refreshCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token/" {
			atomic.AddInt64(&refreshCalls, 1)
			return
		}
		atomic.AddInt64(&postCalls, 1)
		w.Write([]byte(`{"id":"1","hasAccess":false}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetBearerToken("tok1"))

	post, err := client.GetPost(context.Background(), "cool-blog", "1")
	require.NoError(t, err)

	assert.True(t, post.NotAvailable(), "returned as-is when no refresh is possible")
	assert.Equal(t, int64(1), atomic.LoadInt64(&postCalls))
	assert.Equal(t, int64(0), atomic.LoadInt64(&refreshCalls))
}

func TestGetPostsNotAvailableTriggersRefetch(t *testing.T) {
	var listCalls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token/" {
			w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600}`))
			return
		}

		atomic.AddInt64(&listCalls, 1)
		if r.Header.Get("Authorization") != "Bearer at2" {
			w.Write([]byte(`{
				"data": [
					{"id":"p1","hasAccess":true,"data":[{"type":"text","modificator":"","content":"x"}]},
					{"id":"p2","hasAccess":false}
				],
				"extra": {"isLast": true}
			}`))
			return
		}
		w.Write([]byte(`{
			"data": [
				{"id":"p1","hasAccess":true,"data":[{"type":"text","modificator":"","content":"x"}]},
				{"id":"p2","hasAccess":true,"data":[{"type":"text","modificator":"","content":"y"}]}
			],
			"extra": {"isLast": true}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.SetRefreshPair("rt1", "dev1"))

	page, err := client.GetPosts(context.Background(), "cool-blog", &types.PostsRequest{Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	for i := range page.Data {
		assert.False(t, page.Data[i].NotAvailable(), "post %s", page.Data[i].ID)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(&listCalls))
}
