package reddit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crisis-data-etl/internal/config"
	"github.com/couchcryptid/crisis-data-etl/internal/domain"
	"github.com/couchcryptid/crisis-data-etl/internal/observability"
)

const testUserAgent = "crisis-etl-test/1.0"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTokenServer serves the client-credentials grant with a static token.
func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, tokenURL, baseURL string, maxRetries int) *Client {
	t.Helper()
	cfg := &config.Config{
		RedditBaseURL:  baseURL,
		RedditTokenURL: tokenURL,
		PageSize:       100,
		RedditTimeout:  5 * time.Second,
		MaxRetries:     maxRetries,
	}
	creds := config.Credentials{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		UserAgent:    testUserAgent,
	}
	return NewClient(cfg, creds, observability.NewMetricsForTesting(), testLogger())
}

func listingPage(after string, ids ...string) string {
	children := ""
	for i, id := range ids {
		if i > 0 {
			children += ","
		}
		children += fmt.Sprintf(`{"kind":"t3","data":{
			"id":%q,
			"subreddit":"depression",
			"title":"Feeling Hopeless",
			"selftext":"I Can't Sleep anymore",
			"created_utc":1740990600.0,
			"score":42,
			"num_comments":7,
			"num_crossposts":2
		}}`, id)
	}
	return fmt.Sprintf(`{"kind":"Listing","data":{"after":%q,"children":[%s]}}`, after, children)
}

func TestHotPosts_SinglePage(t *testing.T) {
	tokenSrv := newTokenServer(t)
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/depression/hot", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("raw_json"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, listingPage("", "abc123"))
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 0)
	posts, err := client.HotPosts(context.Background(), "depression", 500)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, domain.Post{
		Subreddit: "r/depression",
		PostID:    "abc123",
		Timestamp: domain.NewTimestamp(time.Unix(1740990600, 0)),
		Content:   "feeling hopeless i can't sleep anymore",
		Likes:     42,
		Comments:  7,
		Shares:    2,
	}, posts[0])
}

func TestHotPosts_Pagination(t *testing.T) {
	tokenSrv := newTokenServer(t)
	var calls atomic.Int32
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			assert.Empty(t, r.URL.Query().Get("after"))
			fmt.Fprint(w, listingPage("t3_cursor", "page1a", "page1b"))
		default:
			assert.Equal(t, "t3_cursor", r.URL.Query().Get("after"))
			fmt.Fprint(w, listingPage("", "page2a"))
		}
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 0)
	posts, err := client.HotPosts(context.Background(), "depression", 10)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, posts, 3)
	assert.Equal(t, "page1a", posts[0].PostID)
	assert.Equal(t, "page2a", posts[2].PostID)
}

func TestHotPosts_StopsAtLimit(t *testing.T) {
	tokenSrv := newTokenServer(t)
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		fmt.Fprint(w, listingPage("more", "a", "b"))
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 0)
	posts, err := client.HotPosts(context.Background(), "depression", 2)

	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestHotPosts_RetriesServerErrors(t *testing.T) {
	tokenSrv := newTokenServer(t)
	var calls atomic.Int32
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, listingPage("", "recovered"))
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 2)
	posts, err := client.HotPosts(context.Background(), "depression", 5)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, posts, 1)
	assert.Equal(t, "recovered", posts[0].PostID)
}

func TestHotPosts_ExhaustsRetries(t *testing.T) {
	tokenSrv := newTokenServer(t)
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 1)
	_, err := client.HotPosts(context.Background(), "depression", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestHotPosts_ClientErrorFailsFast(t *testing.T) {
	tokenSrv := newTokenServer(t)
	var calls atomic.Int32
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 3)
	_, err := client.HotPosts(context.Background(), "nosuchsub", 5)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.NotErrorIs(t, err, domain.ErrAuthentication)
}

func TestHotPosts_AuthFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer tokenSrv.Close()
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("listing endpoint must not be reached without a token")
	}))
	defer listSrv.Close()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 3)
	_, err := client.HotPosts(context.Background(), "depression", 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestHotPosts_ContextCancelled(t *testing.T) {
	tokenSrv := newTokenServer(t)
	listSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingPage("", "x"))
	}))
	defer listSrv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := testClient(t, tokenSrv.URL, listSrv.URL, 0)
	_, err := client.HotPosts(ctx, "depression", 5)

	assert.ErrorIs(t, err, context.Canceled)
}
