package engine

import (
	"strings"

	"github.com/dm/mex-go/internal/model"
)

// jobNameSeparator splits a job type into its name and version suffix,
// e.g. "job-ingest:v2.1" -> "job-ingest".
const jobNameSeparator = ":"

// Flatten converts the nested per-job-type metrics into one row per
// (job type, instance type), preserving the traversal order. Rows whose
// count is exactly zero (queried, but no matching jobs) are dropped.
func Flatten(nested []model.JobTypeMetrics) []model.JobMetricsRow {
	var rows []model.JobMetricsRow
	for _, jt := range nested {
		for _, inst := range jt.Instances {
			if inst.Metrics.Count == 0 {
				continue
			}
			rows = append(rows, model.JobMetricsRow{
				JobType:            jt.JobType,
				InstanceType:       inst.InstanceType,
				JobInstanceMetrics: inst.Metrics,
			})
		}
	}
	return rows
}

// Rollup groups table rows by job name with the version suffix removed.
// Per group: the unweighted mean of the per-row daily count means
// (missing rows are skipped, not counted as zero), the summed counts,
// and the mean duration in days; all rows of a run share one
// measurement window. The recalculated mean is not re-rounded, its
// inputs already were. Group order follows first appearance, which for
// a name-sorted table is ascending by job name.
func Rollup(rows []model.JobMetricsRow) []model.JobNameRollup {
	type group struct {
		dailySum   float64
		dailyCount int
		totalCount int64
		daysSum    float64
		rows       int
	}

	var order []string
	groups := make(map[string]*group)

	for _, row := range rows {
		name := strings.SplitN(row.JobType, jobNameSeparator, 2)[0]
		g, ok := groups[name]
		if !ok {
			g = &group{}
			groups[name] = g
			order = append(order, name)
		}
		if row.DailyCountMean.Valid {
			g.dailySum += row.DailyCountMean.Value
			g.dailyCount++
		}
		g.totalCount += row.Count
		g.daysSum += row.DurationDays
		g.rows++
	}

	rollups := make([]model.JobNameRollup, 0, len(order))
	for _, name := range order {
		g := groups[name]
		r := model.JobNameRollup{
			JobName:    name,
			TotalCount: g.totalCount,
		}
		if g.dailyCount > 0 {
			r.RecalculatedDailyCountMean = model.MetricOf(g.dailySum / float64(g.dailyCount))
		}
		if g.rows > 0 {
			r.TotalDurationDays = g.daysSum / float64(g.rows)
		}
		rollups = append(rollups, r)
	}
	return rollups
}
