package segmenter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSegmentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		toks := make([][]string, len(req.Labels))
		for i, l := range req.Labels {
			if l == "middleofnight" {
				toks[i] = []string{"middle", "of", "night"}
			} else {
				toks[i] = []string{l}
			}
		}
		_ = json.NewEncoder(w).Encode(batchResponse{Tokens: toks})
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "pass", WithBatchSize(10))
	got := c.Segment(t.Context(), []string{"middleofnight", "example"})

	if len(got) != 2 {
		t.Fatalf("len(got) = %d", len(got))
	}
	if len(got[0]) != 3 {
		t.Fatalf("tokens for middleofnight = %v", got[0])
	}
	if len(got[1]) != 1 || got[1][0] != "example" {
		t.Fatalf("tokens for example = %v", got[1])
	}
}

func TestSegmentCachesResults(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req batchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		toks := make([][]string, len(req.Labels))
		for i, l := range req.Labels {
			toks[i] = []string{l}
		}
		_ = json.NewEncoder(w).Encode(batchResponse{Tokens: toks})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "")
	_ = c.Segment(t.Context(), []string{"example"})
	_ = c.Segment(t.Context(), []string{"example"})

	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
	if c.Stats().CacheHits != 1 {
		t.Fatalf("expected 1 cache hit, got %d", c.Stats().CacheHits)
	}
}

func Test4xxIsTerminalNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", WithRetries(5))
	got := c.Segment(t.Context(), []string{"example"})

	if calls.Load() != 1 {
		t.Fatalf("expected exactly 1 call for a terminal 4xx, got %d", calls.Load())
	}
	if len(got[0]) != 1 || got[0][0] != "example" {
		t.Fatalf("expected fallback tokens, got %v", got[0])
	}
	if c.Stats().TerminalFailure != 1 {
		t.Fatalf("expected terminal failure counted, got %d", c.Stats().TerminalFailure)
	}
}

func Test5xxRetriesThenFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", WithRetries(2))
	c.baseBackoff = time.Millisecond
	got := c.Segment(t.Context(), []string{"example"})

	if calls.Load() != 3 { // initial + 2 retries
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
	if len(got[0]) != 1 || got[0][0] != "example" {
		t.Fatalf("expected fallback tokens, got %v", got[0])
	}
}

func TestSegmentEmptyTokensFallsBackPerLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		toks := make([][]string, len(req.Labels))
		_ = json.NewEncoder(w).Encode(batchResponse{Tokens: toks})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "")
	got := c.Segment(t.Context(), []string{"example"})
	if len(got[0]) != 1 || got[0][0] != "example" {
		t.Fatalf("expected fallback tokens for empty token list, got %v", got[0])
	}
}
