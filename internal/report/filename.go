package report

import (
	"fmt"

	"github.com/dm/mex-go/internal/timerange"
)

// Filename builds the output workbook name from the store hostname and
// the resolved window. Lookback runs encode the day span and end time;
// explicit-window runs encode both endpoints.
func Filename(hostname string, lookback bool, r timerange.Range) string {
	if lookback {
		return fmt.Sprintf("job_metrics_for_%s_spanning_%d_days_back_from_%s.xlsx",
			hostname, int(r.DurationDays), r.End.Format(timerange.LayoutBasic))
	}
	return fmt.Sprintf("job_metrics_for_%s_from_%s_to_%s.xlsx",
		hostname, r.Start.Format(timerange.LayoutBasic), r.End.Format(timerange.LayoutBasic))
}
