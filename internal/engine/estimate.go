package engine

import (
	"github.com/dm/mex-go/internal/catalog"
	"github.com/dm/mex-go/internal/model"
)

// scratchHeadroomFactor models stage-out headroom when sizing the
// scratch disk. Fixed policy constant, not derived.
const scratchHeadroomFactor = 2.5

// Estimator joins the flattened metrics table with the reference
// hardware catalog and derives per-run cost columns. A row whose
// instance type is absent from the catalog keeps missing-marker cost
// fields; the run never aborts on a join mismatch.
type Estimator struct {
	Catalog               *catalog.Catalog
	BillingType           string
	MinimumScratchGB      float64
	StorageCostPerGBMonth float64
}

// Estimate derives one ProductEstimate per table row.
func (e *Estimator) Estimate(rows []model.JobMetricsRow) []model.ProductEstimate {
	estimates := make([]model.ProductEstimate, 0, len(rows))
	for _, row := range rows {
		estimates = append(estimates, e.estimateRow(row))
	}
	return estimates
}

func (e *Estimator) estimateRow(row model.JobMetricsRow) model.ProductEstimate {
	pe := model.ProductEstimate{
		JobType:               row.JobType,
		JobRuntimeMinutes:     row.JobRuntimeMinutes,
		StageInSizeGB:         row.StageInSizeGB,
		StageOutSizeGB:        row.StageOutSizeGB,
		InstanceType:          row.InstanceType,
		ComputeBillingType:    e.BillingType,
		StorageCostPerGBMonth: e.StorageCostPerGBMonth,
		StageInRateMBps:       row.StageInRateMBps,
		StageOutRateMBps:      row.StageOutRateMBps,
	}

	if off, ok := e.Catalog.Lookup(row.InstanceType); ok {
		pe.ComputeCostPerHour = catalog.ParsePrice(off.Prices[e.BillingType])
		pe.PhysicalProcessor = off.PhysicalProcessor
		pe.VCPUs = off.VCPUs
		pe.InstanceMemoryGiB = off.InstanceMemoryGiB
		pe.MemoryPerVCPU = off.MemoryPerVCPU
		pe.InstanceStorage = off.InstanceStorage
		pe.NetworkPerformance = off.NetworkPerformance
	}

	// Scratch disk: stage-in plus headroom-scaled stage-out, floored at
	// the configured minimum.
	if row.StageInSizeGB.Valid && row.StageOutSizeGB.Valid {
		gb := row.StageInSizeGB.Value + row.StageOutSizeGB.Value*scratchHeadroomFactor
		if gb < e.MinimumScratchGB {
			gb = e.MinimumScratchGB
		}
		pe.ScratchDiskGB = model.MetricOf(gb)
	}

	pe.StageInTimeMinutes = transferMinutes(row.StageInSizeGB, row.StageInRateMBps)
	pe.StageOutTimeMinutes = transferMinutes(row.StageOutSizeGB, row.StageOutRateMBps)

	pe.RuntimeWithMovementHours = row.JobRuntimeMinutes.
		Add(pe.StageInTimeMinutes).
		Add(pe.StageOutTimeMinutes).
		Scale(1.0 / 60.0)

	// Cost is priced on the raw job runtime, not the data-movement
	// inclusive figure; the latter is reported but is not the cost
	// multiplier.
	pe.RuntimeForCostHours = row.JobRuntimeMinutes.Scale(1.0 / 60.0)
	pe.ComputeCostPerRun = pe.ComputeCostPerHour.Mul(pe.RuntimeForCostHours)

	// Literal port of the source cost model. The storage factor mixes
	// hour and day units and the single-run total adds an hours
	// quantity to a dollar cost; downstream spreadsheet consumers
	// already compensate, so the formulas are kept as found.
	pe.ScratchDiskCostPerRun = pe.ScratchDiskGB.
		Scale(e.StorageCostPerGBMonth).
		Mul(pe.RuntimeWithMovementHours.Scale(1.0 / 24.0 * 60.0))
	pe.SingleRunCost = pe.RuntimeWithMovementHours.Add(pe.ScratchDiskCostPerRun)

	return pe
}

// transferMinutes converts a size in GB and a rate in MB/s into a
// transfer duration in minutes. A zero or missing rate yields the
// missing marker, never an infinite or NaN duration.
func transferMinutes(sizeGB, rateMBps model.Metric) model.Metric {
	return sizeGB.Scale(1024).Div(rateMBps).Scale(1.0 / 60.0)
}
