package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dm/mex-go/internal/client"
	"github.com/dm/mex-go/internal/format"
	"github.com/dm/mex-go/internal/model"
)

// Unit conversion divisors for the raw store values.
const (
	secondsPerMinute = 60.0
	nanosPerSecond   = 1e9
	bytesPerGB       = 1073741824.0 // 1024^3
	bytesPerMB       = 1048576.0    // 1024^2
)

// Collector walks job types and their instance types, invoking every
// metric accessor per cell. Any transport failure aborts the whole
// collection; a missing value degrades one field of one cell only.
type Collector struct {
	Source    client.MetricsClient
	Log       *slog.Logger
	Precision int
	// Concurrency > 1 collects the cells of a job type through a
	// bounded worker pool. Output order is normalized back to the
	// lexicographic traversal order either way.
	Concurrency int
}

// Collect returns the nested per-job-type metrics for the window.
// Job types and instance types are each sorted ascending by name, not
// by the store's descending-count response order; the ordering is a
// reproducible presentation choice.
func (c *Collector) Collect(ctx context.Context, w client.Window, durationDays float64) ([]model.JobTypeMetrics, error) {
	log := c.Log
	if log == nil {
		log = slog.Default()
	}

	jobTypes, err := c.Source.JobTypes(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("job type census: %w", err)
	}
	sortBucketsByKey(jobTypes)

	results := make([]model.JobTypeMetrics, 0, len(jobTypes))
	for _, jt := range jobTypes {
		log.Info("job_type --------------------", "job_type", jt.Key)

		instanceTypes, err := c.Source.InstanceTypes(ctx, w, jt.Key)
		if err != nil {
			return nil, fmt.Errorf("instance type census for %s: %w", jt.Key, err)
		}
		sortBucketsByKey(instanceTypes)

		cells := make([]model.InstanceMetrics, len(instanceTypes))
		collect := func(ctx context.Context, i int) error {
			it := instanceTypes[i].Key
			m, err := c.collectCell(ctx, w, jt.Key, it, durationDays, log)
			if err != nil {
				return err
			}
			cells[i] = model.InstanceMetrics{InstanceType: it, Metrics: m}
			return nil
		}

		if c.Concurrency > 1 {
			// Cells run under the group context so one failure cancels
			// the in-flight siblings, not just the unstarted ones.
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(c.Concurrency)
			for i := range instanceTypes {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					return collect(gctx, i)
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else {
			for i := range instanceTypes {
				if err := collect(ctx, i); err != nil {
					return nil, err
				}
			}
		}

		results = append(results, model.JobTypeMetrics{JobType: jt.Key, Instances: cells})
	}
	return results, nil
}

// collectCell runs the six scalar accessors for one
// (job type, instance type) pair, converts units, and rounds.
func (c *Collector) collectCell(ctx context.Context, w client.Window, jobType, instanceType string, durationDays float64, log *slog.Logger) (model.JobInstanceMetrics, error) {
	log.Info("    instance_type", "instance_type", instanceType)

	m := model.JobInstanceMetrics{DurationDays: durationDays}

	rt, err := c.Source.JobRuntime(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("job runtime for %s/%s: %w", jobType, instanceType, err)
	}
	m.JobRuntimeMinutes = scalarMetric(rt, func(v float64) float64 { return v / secondsPerMinute })
	log.Info("    job_runtime minutes", "value", format.Metric(m.JobRuntimeMinutes))

	cr, err := c.Source.ContainerRuntime(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("container runtime for %s/%s: %w", jobType, instanceType, err)
	}
	m.ContainerRuntimeMinutes = scalarMetric(cr, func(v float64) float64 {
		return v / nanosPerSecond / secondsPerMinute
	})
	// Every scalar query for a cell shares the same filter set, so the
	// hit totals agree; the cell count and its daily mean come from the
	// container runtime query.
	if cr.HitsTotal != nil {
		m.Count = *cr.HitsTotal
		if durationDays > 0 {
			m.DailyCountMean = model.MetricOf(float64(*cr.HitsTotal) / durationDays)
		}
		log.Info("    count", "relation", cr.HitsRelation, "count", format.Number(m.Count), "avg_per_day", format.Metric(m.DailyCountMean))
	}

	sis, err := c.Source.StageInSize(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("stage-in size for %s/%s: %w", jobType, instanceType, err)
	}
	m.StageInSizeGB = scalarMetric(sis, func(v float64) float64 { return v / bytesPerGB })
	log.Info("    stage_in_size GB", "value", format.Metric(m.StageInSizeGB))

	sir, err := c.Source.StageInRate(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("stage-in rate for %s/%s: %w", jobType, instanceType, err)
	}
	m.StageInRateMBps = scalarMetric(sir, func(v float64) float64 { return v / bytesPerMB })
	log.Info("    stage_in_rate MB/s", "value", format.Metric(m.StageInRateMBps))

	sos, err := c.Source.StageOutSize(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("stage-out size for %s/%s: %w", jobType, instanceType, err)
	}
	m.StageOutSizeGB = scalarMetric(sos, func(v float64) float64 { return v / bytesPerGB })
	log.Info("    stage_out_size GB", "value", format.Metric(m.StageOutSizeGB))

	sor, err := c.Source.StageOutRate(ctx, w, jobType, instanceType)
	if err != nil {
		return m, fmt.Errorf("stage-out rate for %s/%s: %w", jobType, instanceType, err)
	}
	m.StageOutRateMBps = scalarMetric(sor, func(v float64) float64 { return v / bytesPerMB })
	log.Info("    stage_out_rate MB/s", "value", format.Metric(m.StageOutRateMBps))

	return m.Rounded(c.Precision), nil
}

// scalarMetric converts a ScalarResult into a Metric, applying the unit
// conversion to a present value. An absent value stays the missing
// marker; it is not an error and not zero.
func scalarMetric(sr client.ScalarResult, convert func(float64) float64) model.Metric {
	if sr.Value == nil {
		return model.NoData
	}
	return model.MetricOf(convert(*sr.Value))
}

func sortBucketsByKey(buckets []client.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
}
