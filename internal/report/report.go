// Package report renders the collected tables into a multi-sheet
// workbook: the flattened per-cell metrics, the per-job-name rollup,
// and optionally the product cost estimates.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dm/mex-go/internal/model"
)

// Sheet names, fixed; downstream consumers key on them.
const (
	SheetJobAggregateMetrics = "job_aggregate_metrics"
	SheetJobMetricsByCount   = "job_metrics_by_count"
	SheetProductEstimates    = "product_estimates"
)

// Column autosize buffers, per sheet kind.
const (
	metricsWidthBuffer   = 1.1
	estimatesWidthBuffer = 0.8
)

// Workbook is the report content. A nil Estimates slice omits the
// product_estimates sheet entirely.
type Workbook struct {
	Metrics   []model.JobMetricsRow
	Rollup    []model.JobNameRollup
	Estimates []model.ProductEstimate
}

var metricsHeader = []string{
	"JobType",
	"job_runtime_m",
	"container_runtime_m",
	"stage_in_size_gb",
	"stage_out_size_gb",
	"InstanceType",
	"stage_in_rate_MBps",
	"stage_out_rate_MBps",
	"daily_count_mean",
	"count",
	"duration_days",
}

var rollupHeader = []string{
	"JobType",
	"recalculated_daily_count_mean",
	"total_count",
	"total_duration_days",
}

var estimatesHeader = []string{
	"JobType",
	"job_runtime_m",
	"stage_in_size_gb",
	"stage_out_size_gb",
	"InstanceType",
	"Compute Billing Type",
	"compute instance cost ($/hr)",
	"Physical Processor",
	"vCPUs",
	"Instance Memory (GiB)",
	"GiB of Memory per vCPU",
	"Instance Storage",
	"EBS scratch Disk General Purpose SSD gp3 Volumes (GB)",
	"EBS gp3 cost/GB/month",
	"Network Performance",
	"stage_in_rate_MBps",
	"stage_out_rate_MBps",
	"Data Stage-In time (minutes)",
	"Data Stage-Out time (minutes)",
	"Job Runtime with data movement (hours)",
	"Total Job Runtime to use for estimating per job cost (hours)",
	"EC2 Instance cost (for duration of job)",
	"EBS scratch disk cost (for duration of job)",
	"Cost of a single job run",
}

// Write renders the workbook to path. Missing metric values stay blank
// cells, never zeros.
func Write(path string, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetJobAggregateMetrics, metricsHeader, metricsCells(wb.Metrics), metricsWidthBuffer); err != nil {
		return err
	}
	if err := writeSheet(f, SheetJobMetricsByCount, rollupHeader, rollupCells(wb.Rollup), metricsWidthBuffer); err != nil {
		return err
	}
	if wb.Estimates != nil {
		if err := writeSheet(f, SheetProductEstimates, estimatesHeader, estimateCells(wb.Estimates), estimatesWidthBuffer); err != nil {
			return err
		}
	}

	// The sheets above replace excelize's default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func metricsCells(rows []model.JobMetricsRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.JobType,
			metricCell(r.JobRuntimeMinutes),
			metricCell(r.ContainerRuntimeMinutes),
			metricCell(r.StageInSizeGB),
			metricCell(r.StageOutSizeGB),
			r.InstanceType,
			metricCell(r.StageInRateMBps),
			metricCell(r.StageOutRateMBps),
			metricCell(r.DailyCountMean),
			r.Count,
			r.DurationDays,
		})
	}
	return out
}

func rollupCells(rows []model.JobNameRollup) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.JobName,
			metricCell(r.RecalculatedDailyCountMean),
			r.TotalCount,
			r.TotalDurationDays,
		})
	}
	return out
}

func estimateCells(rows []model.ProductEstimate) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{
			r.JobType,
			metricCell(r.JobRuntimeMinutes),
			metricCell(r.StageInSizeGB),
			metricCell(r.StageOutSizeGB),
			r.InstanceType,
			r.ComputeBillingType,
			metricCell(r.ComputeCostPerHour),
			r.PhysicalProcessor,
			r.VCPUs,
			r.InstanceMemoryGiB,
			r.MemoryPerVCPU,
			r.InstanceStorage,
			metricCell(r.ScratchDiskGB),
			r.StorageCostPerGBMonth,
			r.NetworkPerformance,
			metricCell(r.StageInRateMBps),
			metricCell(r.StageOutRateMBps),
			metricCell(r.StageInTimeMinutes),
			metricCell(r.StageOutTimeMinutes),
			metricCell(r.RuntimeWithMovementHours),
			metricCell(r.RuntimeForCostHours),
			metricCell(r.ComputeCostPerRun),
			metricCell(r.ScratchDiskCostPerRun),
			metricCell(r.SingleRunCost),
		})
	}
	return out
}

// metricCell maps a missing metric to nil so the cell stays blank.
func metricCell(m model.Metric) any {
	if !m.Valid {
		return nil
	}
	return m.Value
}

// writeSheet fills one sheet: header row, data rows, frozen first row
// and column, and content-sized column widths.
func writeSheet(f *excelize.File, name string, header []string, rows [][]any, widthBuffer float64) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	widths := make([]int, len(header))
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("sheet %s header: %w", name, err)
		}
		widths[col] = len(h)
	}

	for i, row := range rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
			}
			if w := len(fmt.Sprint(value)); col < len(widths) && w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col, w := range widths {
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := float64(w+2) * widthBuffer
		if err := f.SetColWidth(name, letter, letter, width); err != nil {
			return fmt.Errorf("sheet %s column width: %w", name, err)
		}
	}

	// Freeze the first row and column for scrolling.
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("sheet %s panes: %w", name, err)
	}
	return nil
}
