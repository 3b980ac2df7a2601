package model

// JobInstanceMetrics holds the averaged metrics collected for one
// (job type, instance type) cell. Fields sourced from a query with no
// matching documents stay NoData; they are never coerced to zero.
type JobInstanceMetrics struct {
	JobRuntimeMinutes       Metric
	ContainerRuntimeMinutes Metric
	StageInSizeGB           Metric
	StageOutSizeGB          Metric
	StageInRateMBps         Metric
	StageOutRateMBps        Metric
	DailyCountMean          Metric
	Count                   int64
	DurationDays            float64
}

// Rounded returns a copy with every numeric field rounded to the given
// number of decimal places. Missing metrics are left untouched.
func (j JobInstanceMetrics) Rounded(places int) JobInstanceMetrics {
	j.JobRuntimeMinutes = j.JobRuntimeMinutes.Round(places)
	j.ContainerRuntimeMinutes = j.ContainerRuntimeMinutes.Round(places)
	j.StageInSizeGB = j.StageInSizeGB.Round(places)
	j.StageOutSizeGB = j.StageOutSizeGB.Round(places)
	j.StageInRateMBps = j.StageInRateMBps.Round(places)
	j.StageOutRateMBps = j.StageOutRateMBps.Round(places)
	j.DailyCountMean = j.DailyCountMean.Round(places)
	j.DurationDays = RoundTo(j.DurationDays, places)
	return j
}

// InstanceMetrics pairs one instance type with its collected metrics.
type InstanceMetrics struct {
	InstanceType string
	Metrics      JobInstanceMetrics
}

// JobTypeMetrics holds the per-instance-type metrics for one job type,
// in the collector's lexicographic traversal order.
type JobTypeMetrics struct {
	JobType   string
	Instances []InstanceMetrics
}

// JobMetricsRow is one flattened (job type, instance type) table row.
type JobMetricsRow struct {
	JobType      string
	InstanceType string
	JobInstanceMetrics
}

// JobNameRollup aggregates table rows by job name with the version
// suffix stripped.
type JobNameRollup struct {
	JobName                    string
	RecalculatedDailyCountMean Metric
	TotalCount                 int64
	TotalDurationDays          float64
}
