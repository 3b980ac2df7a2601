package client

import (
	"context"
	"encoding/json"
	"time"
)

// Window is the half-open UTC time range every query is constrained to.
type Window struct {
	Start time.Time
	End   time.Time
}

// esTimeLayout is the timestamp format the store expects in range
// filters, e.g. "2024-03-12T22:32:26.383Z".
const esTimeLayout = "2006-01-02T15:04:05.000Z"

func (w Window) startString() string { return w.Start.UTC().Format(esTimeLayout) }
func (w Window) endString() string   { return w.End.UTC().Format(esTimeLayout) }

// Bucket is one (key, document count) pair from a terms aggregation.
type Bucket struct {
	Key   string
	Count int64
}

// ScalarResult is the outcome of an avg aggregation: the hit-total
// relation ("eq" or "gte"), the hit total when parsable, and the
// averaged value. Value is nil whenever the hit total is zero or
// absent — a zero hit count must never read as a valid zero average.
type ScalarResult struct {
	HitsRelation string
	HitsTotal    *int64
	Value        *float64
}

// MetricsClient defines the aggregation queries the collector issues
// against the metrics store.
type MetricsClient interface {
	JobTypes(ctx context.Context, w Window) ([]Bucket, error)
	InstanceTypes(ctx context.Context, w Window, jobType string) ([]Bucket, error)
	JobRuntime(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	ContainerRuntime(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	StageInSize(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	StageInRate(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	StageOutSize(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	StageOutRate(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error)
	SearchURL() string
}

// searchResponse is the store's response envelope:
// {hits: {total: {value, relation}}, aggregations: {<name>: {...}}}.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value    json.Number `json:"value"`
			Relation string      `json:"relation"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations map[string]aggregationResult `json:"aggregations"`
}

type aggregationResult struct {
	Value   *float64      `json:"value"`
	Buckets []bucketEntry `json:"buckets"`
}

type bucketEntry struct {
	Key      string `json:"key"`
	DocCount int64  `json:"doc_count"`
}

// hitsTotal parses hits.total.value, returning nil when the field is
// absent or not an integer.
func (r *searchResponse) hitsTotal() *int64 {
	n, err := r.Hits.Total.Value.Int64()
	if err != nil {
		return nil
	}
	return &n
}
