package engine

import (
	"context"

	"github.com/dm/mex-go/internal/client"
)

// mockSource is a function-field test double for client.MetricsClient.
// Unset functions return empty results.
type mockSource struct {
	jobTypesFn         func(ctx context.Context, w client.Window) ([]client.Bucket, error)
	instanceTypesFn    func(ctx context.Context, w client.Window, jobType string) ([]client.Bucket, error)
	jobRuntimeFn       func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
	containerRuntimeFn func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
	stageInSizeFn      func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
	stageInRateFn      func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
	stageOutSizeFn     func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
	stageOutRateFn     func(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error)
}

var _ client.MetricsClient = (*mockSource)(nil)

func (m *mockSource) JobTypes(ctx context.Context, w client.Window) ([]client.Bucket, error) {
	if m.jobTypesFn == nil {
		return nil, nil
	}
	return m.jobTypesFn(ctx, w)
}

func (m *mockSource) InstanceTypes(ctx context.Context, w client.Window, jobType string) ([]client.Bucket, error) {
	if m.instanceTypesFn == nil {
		return nil, nil
	}
	return m.instanceTypesFn(ctx, w, jobType)
}

func (m *mockSource) JobRuntime(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.jobRuntimeFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.jobRuntimeFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) ContainerRuntime(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.containerRuntimeFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.containerRuntimeFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) StageInSize(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.stageInSizeFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.stageInSizeFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) StageInRate(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.stageInRateFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.stageInRateFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) StageOutSize(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.stageOutSizeFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.stageOutSizeFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) StageOutRate(ctx context.Context, w client.Window, jobType, instanceType string) (client.ScalarResult, error) {
	if m.stageOutRateFn == nil {
		return client.ScalarResult{}, nil
	}
	return m.stageOutRateFn(ctx, w, jobType, instanceType)
}

func (m *mockSource) SearchURL() string {
	return "http://mock/metrics_es/logstash-*/_search"
}

// scalar builds a present-value result.
func scalar(v float64, hits int64) client.ScalarResult {
	return client.ScalarResult{HitsRelation: "eq", HitsTotal: &hits, Value: &v}
}

// missingScalar builds a result with hits but no averaged value.
func missingScalar(hits int64) client.ScalarResult {
	return client.ScalarResult{HitsRelation: "eq", HitsTotal: &hits}
}

// buckets builds a census response.
func buckets(pairs ...any) []client.Bucket {
	out := make([]client.Bucket, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, client.Bucket{Key: pairs[i].(string), Count: int64(pairs[i+1].(int))})
	}
	return out
}
