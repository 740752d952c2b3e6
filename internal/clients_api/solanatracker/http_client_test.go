package solanatracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"uranus-analytics/internal/infra/retry"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		MaxRetries:     3,
		RetryDelay:     5 * time.Millisecond,
		SetRetryPolicy: true,
		MinInterval:    time.Millisecond,
	})
}

// statusSequence answers with the given statuses in order, then repeats the last one.
func statusSequence(t *testing.T, hits *int32, statuses ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(hits, 1))
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"ok":true}`))
		}
	}
}

func TestRequest_SucceedsAfterThreeRateLimits(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(t, &hits, 429, 429, 429, 200))
	defer server.Close()

	body, err := newTestClient(server.URL).Request(context.Background(), "/tokens/abc", 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.EqualValues(t, 4, atomic.LoadInt32(&hits))
}

func TestRequest_FailsWhenEveryAttemptIsRateLimited(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(t, &hits, 429))
	defer server.Close()

	_, err := newTestClient(server.URL).Request(context.Background(), "/tokens/abc", 3)
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, KindRateLimitExceeded, ue.Kind)
	assert.Equal(t, http.StatusTooManyRequests, ue.Status)
	assert.EqualValues(t, 4, atomic.LoadInt32(&hits))
}

func TestRequest_HTTPErrorIsNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(t, &hits, 503))
	defer server.Close()

	_, err := newTestClient(server.URL).Request(context.Background(), "/tokens/abc", 3)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, KindHTTP, ue.Kind)
	assert.Equal(t, 503, ue.Status)
	assert.Contains(t, ue.Error(), "status: 503")
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestRequest_SendsAPIKeyAndPath(t *testing.T) {
	var gotKey, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		w.Write([]byte(`{"token":{}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetTopHolders(context.Background(), "Mint111")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "/tokens/Mint111/holders/top", gotPath)
}

func TestRequest_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>cloudflare</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetToken(context.Background(), "abc")
	assert.Equal(t, KindMalformedBody, KindOf(err))
}

func TestRequest_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).GetHolderChart(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestRequest_EveryAttemptPassesTheLimiter(t *testing.T) {
	var hits int32
	server := httptest.NewServer(statusSequence(t, &hits, 429, 200))
	defer server.Close()

	limiter := NewRateLimiter(40 * time.Millisecond)
	client := NewClient(Options{
		BaseURL:        server.URL,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
		SetRetryPolicy: true,
		Limiter:        limiter,
	})

	start := time.Now()
	_, err := client.Request(context.Background(), "/tokens/abc", 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.False(t, limiter.LastRequest().IsZero())
}

func TestGetCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/credits", r.URL.Path)
		w.Write([]byte(`{"credits": 12345}`))
	}))
	defer server.Close()

	credits, err := newTestClient(server.URL).GetCredits(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `12345`, string(credits.Credits))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, KindHTTP, KindOf(&UpstreamError{Kind: KindHTTP}))
}

func TestRequest_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var tokenHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/credits" {
			w.Write([]byte(`{"credits":500}`))
			return
		}
		atomic.AddInt32(&tokenHits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	for i := 0; i < 10; i++ {
		_, err := client.GetToken(context.Background(), "bad-address")
		require.Error(t, err)
		assert.Equal(t, KindHTTP, KindOf(err), "attempt %d", i)
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&tokenHits))

	credits, err := client.GetCredits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "500", string(credits.Credits))
}

func TestRequest_ServerErrorsOpenBreakerButNotHealthCheck(t *testing.T) {
	var tokenHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/credits" {
			w.Write([]byte(`{"credits":1}`))
			return
		}
		atomic.AddInt32(&tokenHits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	client := newTestClient(server.URL)

	for i := 0; i < 6; i++ {
		_, err := client.GetToken(context.Background(), "abc")
		assert.Equal(t, KindHTTP, KindOf(err))
	}
	_, err := client.GetToken(context.Background(), "abc")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(6), atomic.LoadInt32(&tokenHits))

	_, err = client.GetCredits(context.Background())
	assert.NoError(t, err)
}

func TestCountsAsHealthy(t *testing.T) {
	assert.True(t, countsAsHealthy(nil))
	assert.True(t, countsAsHealthy(&retry.HTTPError{StatusCode: http.StatusNotFound}))
	assert.True(t, countsAsHealthy(fmt.Errorf("wrapped: %w", &retry.HTTPError{StatusCode: http.StatusUnauthorized})))
	assert.False(t, countsAsHealthy(&retry.HTTPError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, countsAsHealthy(&retry.HTTPError{StatusCode: http.StatusInternalServerError}))
	assert.False(t, countsAsHealthy(errors.New("connection refused")))
}
