package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// TransportError is a non-success response from the metrics store. It
// aborts the whole run: a partial report is worse than no report.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("got response code %d due to %s", e.StatusCode, e.Status)
}

// Config holds configuration for DefaultClient.
type Config struct {
	// SearchURL is the full aggregation endpoint, e.g.
	// "https://host/metrics_es/logstash-*/_search".
	SearchURL          string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// DefaultClient implements MetricsClient over a single reused
// net/http client. It is safe for use by one run at a time.
type DefaultClient struct {
	http   *http.Client
	config Config
	log    *slog.Logger
}

// NewDefaultClient constructs a DefaultClient from the given config.
// Returns an error if SearchURL is empty.
func NewDefaultClient(cfg Config, log *slog.Logger) (*DefaultClient, error) {
	if cfg.SearchURL == "" {
		return nil, fmt.Errorf("SearchURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		config: cfg,
		log:    log,
	}, nil
}

// SearchURL returns the configured aggregation endpoint.
func (c *DefaultClient) SearchURL() string {
	return c.config.SearchURL
}

// doSearch POSTs the aggregation query body and returns the raw
// response. It sets Content-Type: application/json and Basic Auth if
// credentials are configured.
func (c *DefaultClient) doSearch(ctx context.Context, query map[string]any) (*http.Response, []byte, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SearchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.config.Username != "" || c.config.Password != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	const maxResponseBytes = 32 * 1024 * 1024 // well above any real aggregation response
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	c.log.Debug("search response", "code", resp.StatusCode, "reason", resp.Status)
	return resp, body, nil
}

// searchBuckets runs a terms aggregation query and returns its
// (key, count) pairs in the store's response order. A non-2xx status
// is a *TransportError and must propagate. The list is empty when
// hits.total is zero or absent.
func (c *DefaultClient) searchBuckets(ctx context.Context, query map[string]any) ([]Bucket, error) {
	resp, body, err := c.doSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode bucket response: %w", err)
	}

	var buckets []Bucket
	if total := result.hitsTotal(); total != nil && *total != 0 {
		for _, agg := range result.Aggregations {
			for _, b := range agg.Buckets {
				buckets = append(buckets, Bucket{Key: b.Key, Count: b.DocCount})
			}
		}
	}
	c.log.Debug("bucket result", "buckets", len(buckets))
	return buckets, nil
}

// searchAvg runs an avg aggregation query. Unlike searchBuckets it does
// not fail on a non-success status: an unparsable response is treated
// as a missing value, and only request-level failures return an error.
// The two accessors deliberately have different failure contracts.
func (c *DefaultClient) searchAvg(ctx context.Context, query map[string]any) (ScalarResult, error) {
	_, body, err := c.doSearch(ctx, query)
	if err != nil {
		return ScalarResult{}, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return ScalarResult{}, nil
	}

	sr := ScalarResult{
		HitsRelation: result.Hits.Total.Relation,
		HitsTotal:    result.hitsTotal(),
	}
	if sr.HitsTotal != nil && *sr.HitsTotal != 0 {
		// The avg queries declare exactly one aggregation.
		for _, agg := range result.Aggregations {
			sr.Value = agg.Value
		}
	}
	c.log.Debug("scalar result",
		"hits_total_relation", sr.HitsRelation,
		"hits_total_value", sr.HitsTotal,
		"value", sr.Value)
	return sr, nil
}
