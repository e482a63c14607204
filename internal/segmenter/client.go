// Package segmenter batches raw labels to the external
// word-segmentation service, joining responses back to their labels,
// retrying transient failures, and falling back to single-word tokens
// when a batch is exhausted.
package segmenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultBatchSize is WORD_BATCH_SIZE's default.
	DefaultBatchSize = 500
	// DefaultConcurrency is the default number of in-flight batches.
	DefaultConcurrency = 4
	// DefaultRetries is R, the retry cap per batch.
	DefaultRetries = 5
	// DefaultBaseBackoff is the exponential backoff base delay.
	DefaultBaseBackoff = 250 * time.Millisecond
	// DefaultBackoffFactor is the exponential backoff multiplier.
	DefaultBackoffFactor = 2.0
	// DefaultCacheSize bounds the in-process label->tokens LRU.
	DefaultCacheSize = 1_000_000
)

// Stats accumulates counters a build/daily run reports at the end.
type Stats struct {
	Requested       int64
	CacheHits       int64
	TerminalFailure int64 // batches that failed for good (terminal error or retries exhausted) and fell back
}

// Client batches labels to the segmentation HTTP endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	user, pass string

	batchSize   int
	concurrency int
	retries     int
	baseBackoff time.Duration
	factor      float64
	batchTimeout time.Duration

	cache *lru.Cache[string, []string]
	log   *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// Option configures a Client.
type Option func(*Client)

// WithBatchSize overrides WORD_BATCH_SIZE.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithConcurrency overrides the number of in-flight batches K.
func WithConcurrency(k int) Option {
	return func(c *Client) {
		if k > 0 {
			c.concurrency = k
		}
	}
}

// WithRetries overrides the per-batch retry cap R.
func WithRetries(r int) Option {
	return func(c *Client) {
		if r >= 0 {
			c.retries = r
		}
	}
}

// WithBatchTimeout bounds a single batch's HTTP round trip, independent
// of the retry budget.
func WithBatchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.batchTimeout = d
		}
	}
}

// WithCacheSize overrides the bounded label->tokens LRU capacity.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			cache, err := lru.New[string, []string](n)
			if err == nil {
				c.cache = cache
			}
		}
	}
}

// WithLogger sets the logger. If nil, slog.Default is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient overrides the underlying *http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client against baseURL with basic-auth credentials,
// applying its default batch size, concurrency and retry policy.
func New(baseURL, user, pass string, opts ...Option) *Client {
	cache, _ := lru.New[string, []string](DefaultCacheSize)
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      baseURL,
		user:         user,
		pass:         pass,
		batchSize:    DefaultBatchSize,
		concurrency:  DefaultConcurrency,
		retries:      DefaultRetries,
		baseBackoff:  DefaultBaseBackoff,
		factor:       DefaultBackoffFactor,
		batchTimeout: 10 * time.Second,
		cache:        cache,
		log:          slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stats returns a snapshot of the client's counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Segment resolves tokens for every label in labels, consulting the
// cache first and batching the rest through segmentBatchWithRetry, run with up to
// Client.concurrency batches in flight.
// The returned slice has one entry per input label, in the same order.
func (c *Client) Segment(ctx context.Context, labels []string) [][]string {
	results := make([][]string, len(labels))
	var toFetch []int

	for i, l := range labels {
		if c.cache != nil {
			if tok, ok := c.cache.Get(l); ok {
				results[i] = tok
				c.mu.Lock()
				c.stats.CacheHits++
				c.mu.Unlock()
				continue
			}
		}
		toFetch = append(toFetch, i)
	}

	if len(toFetch) == 0 {
		return results
	}

	type batch struct {
		idx    []int
		labels []string
	}
	var batches []batch
	for start := 0; start < len(toFetch); start += c.batchSize {
		end := start + c.batchSize
		if end > len(toFetch) {
			end = len(toFetch)
		}
		idx := toFetch[start:end]
		lbls := make([]string, len(idx))
		for j, ix := range idx {
			lbls[j] = labels[ix]
		}
		batches = append(batches, batch{idx: idx, labels: lbls})
	}

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	for _, b := range batches {
		b := b
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			tokens := c.segmentBatchWithRetry(ctx, b.labels)
			for j, ix := range b.idx {
				results[ix] = tokens[j]
				if c.cache != nil {
					c.cache.Add(labels[ix], tokens[j])
				}
			}
		}()
	}
	wg.Wait()

	c.mu.Lock()
	c.stats.Requested += int64(len(toFetch))
	c.mu.Unlock()

	return results
}

// segmentBatchWithRetry runs one batch with exponential backoff + jitter:
// the first attempt plus up to c.retries retries. 4xx responses are
// terminal immediately; transport errors and 5xx are retried. When the
// batch fails for good (terminal error or retries exhausted) every label
// in it falls back to [label] and the terminal-failure counter advances.
func (c *Client) segmentBatchWithRetry(ctx context.Context, labels []string) [][]string {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fallback(labels)
			}
		}

		tokens, terminal, err := c.segmentBatch(ctx, labels)
		if err == nil {
			return tokens
		}
		lastErr = err
		if terminal {
			break
		}
	}

	c.log.Warn("segmenter batch exhausted retries, falling back",
		slog.Int("labels", len(labels)), slog.Any("error", lastErr))
	c.mu.Lock()
	c.stats.TerminalFailure++
	c.mu.Unlock()
	return fallback(labels)
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	d := float64(c.baseBackoff)
	for i := 1; i < attempt; i++ {
		d *= c.factor
	}
	jitter := 0.5 + rand.Float64() // 50%-150% jitter
	return time.Duration(d * jitter)
}

func fallback(labels []string) [][]string {
	out := make([][]string, len(labels))
	for i, l := range labels {
		out[i] = []string{l}
	}
	return out
}

// batchRequest/batchResponse are the wire shapes exchanged with the
// segmentation service: a list of labels in, a parallel list of token
// lists out.
type batchRequest struct {
	Labels []string `json:"labels"`
}

type batchResponse struct {
	Tokens [][]string `json:"tokens"`
}

// segmentBatch performs one HTTP round trip. The bool return reports
// whether the error (if any) is terminal for this batch (a 4xx).
func (c *Client) segmentBatch(ctx context.Context, labels []string) ([][]string, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.batchTimeout)
	defer cancel()

	body, err := json.Marshal(batchRequest{Labels: labels})
	if err != nil {
		return nil, true, fmt.Errorf("segmenter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, true, fmt.Errorf("segmenter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" || c.pass != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("segmenter: transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("segmenter: client error %d", resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("segmenter: server error %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("segmenter: unexpected status %d", resp.StatusCode)
	}

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("segmenter: decode response: %w", err)
	}
	if len(out.Tokens) != len(labels) {
		return nil, true, fmt.Errorf("segmenter: response length %d != request length %d", len(out.Tokens), len(labels))
	}

	for i, t := range out.Tokens {
		if len(t) == 0 {
			out.Tokens[i] = []string{labels[i]}
		}
	}
	return out.Tokens, false, nil
}
