package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientGetCachesResponses(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL, CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), "/items", nil, true); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("upstream hits = %d, want 1 (cached)", got)
	}
}

func TestClientGetBypassesCacheWhenDisabled(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL})

	for i := 0; i < 2; i++ {
		if _, err := c.Get(context.Background(), "/items", nil, false); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("upstream hits = %d, want 2 (uncached)", got)
	}
}

func TestClientAttachesAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL, Credential: "secret", AuthStyle: AuthAPIKeyHeader})
	if _, err := c.Get(context.Background(), "/x", nil, false); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("x-api-key = %q, want secret", gotKey)
	}
}

func TestClientPostInvalidatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL, CacheTTL: time.Minute})

	if _, err := c.Get(context.Background(), "/items", nil, true); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.cache.Len() != 1 {
		t.Fatalf("expected 1 cached entry before invalidation")
	}
	if _, err := c.Post(context.Background(), "/items", map[string]any{"name": "x"}, true); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.cache.Len() != 0 {
		t.Errorf("expected cache cleared after invalidating POST, len = %d", c.cache.Len())
	}
}

func TestClientRetriesAndFailsWithUpstreamError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	orig := retryBackoff
	retryBackoff = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	defer func() { retryBackoff = orig }()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL})
	_, err := c.Get(context.Background(), "/flaky", nil, false)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if _, ok := err.(*UpstreamError); !ok {
		t.Errorf("err = %T, want *UpstreamError", err)
	}
	if got := atomic.LoadInt32(&attempts); got != int32(len(retryBackoff)) {
		t.Errorf("upstream attempts = %d, want %d (exactly len(retryBackoff))", got, len(retryBackoff))
	}
}

func TestPoolReturnsSameClientForSameKey(t *testing.T) {
	pool := NewPool(nil)
	opts := ClientOptions{BaseURL: "http://example.com", Credential: "k"}
	if pool.Client(opts) != pool.Client(opts) {
		t.Error("expected pooled client reuse for identical options")
	}
}

func TestPoolCloseRejectsFurtherCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	pool := NewPool(nil)
	c := pool.Client(ClientOptions{BaseURL: srv.URL})
	pool.Close()

	if _, err := c.Get(context.Background(), "/x", nil, false); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
