package client

import "context"

// Document fields the accessors aggregate over.
const (
	fieldJobType       = "job_type.keyword"
	fieldInstanceType  = "job.job_info.facts.ec2_instance_type.keyword"
	fieldExitCode      = "job.job_info.status"
	fieldJobDuration   = "job.job_info.duration"                               // seconds
	fieldContainerWall = "job.job_info.metrics.usage_stats.wall_time"          // nanoseconds
	fieldStageInSize   = "job.job_info.metrics.inputs_localized.disk_usage"    // bytes
	fieldStageInRate   = "job.job_info.metrics.inputs_localized.transfer_rate" // bytes/sec
	fieldStageOutSize  = "job.job_info.metrics.products_staged.disk_usage"     // bytes
	fieldStageOutRate  = "job.job_info.metrics.products_staged.transfer_rate"  // bytes/sec
)

// exitCodeSuccess constrains the scalar metrics to jobs that completed
// successfully.
const exitCodeSuccess = 0

// JobTypes returns the job-type census for the window: every job type
// seen, with its document count.
func (c *DefaultClient) JobTypes(ctx context.Context, w Window) ([]Bucket, error) {
	return c.searchBuckets(ctx, termsQuery(w, fieldJobType))
}

// InstanceTypes returns the instance-type census scoped to one job type.
func (c *DefaultClient) InstanceTypes(ctx context.Context, w Window, jobType string) ([]Bucket, error) {
	return c.searchBuckets(ctx, termsQuery(w, fieldInstanceType,
		matchPhrase(fieldJobType, jobType)))
}

// avgField runs the shared avg aggregation for one cell: the given
// field, constrained to the job type, successful exit code, instance
// type, and window.
func (c *DefaultClient) avgField(ctx context.Context, w Window, jobType, instanceType, field string) (ScalarResult, error) {
	return c.searchAvg(ctx, avgQuery(w, field,
		matchPhrase(fieldJobType, jobType),
		matchPhrase(fieldExitCode, exitCodeSuccess),
		matchPhrase(fieldInstanceType, instanceType)))
}

// JobRuntime returns the mean duration of the whole job step in
// seconds, stage-in and stage-out included.
func (c *DefaultClient) JobRuntime(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldJobDuration)
}

// ContainerRuntime returns the mean container wall time in nanoseconds.
func (c *DefaultClient) ContainerRuntime(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldContainerWall)
}

// StageInSize returns the mean localized input size in bytes.
func (c *DefaultClient) StageInSize(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldStageInSize)
}

// StageInRate returns the mean input transfer rate in bytes per second.
func (c *DefaultClient) StageInRate(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldStageInRate)
}

// StageOutSize returns the mean staged product size in bytes.
func (c *DefaultClient) StageOutSize(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldStageOutSize)
}

// StageOutRate returns the mean product transfer rate in bytes per second.
func (c *DefaultClient) StageOutRate(ctx context.Context, w Window, jobType, instanceType string) (ScalarResult, error) {
	return c.avgField(ctx, w, jobType, instanceType, fieldStageOutRate)
}
