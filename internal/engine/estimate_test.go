package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dm/mex-go/internal/catalog"
	"github.com/dm/mex-go/internal/model"
)

// testCatalog writes a minimal reference workbook and loads it back:
// a blank first row, the header row, and one t3.medium offering.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	f := excelize.NewFile()
	_, err := f.NewSheet(catalog.SheetName)
	require.NoError(t, err)

	header := []string{
		"Sticky Favorite", "API Name", "Physical Processor", "vCPUs",
		"Instance Memory (GiB)", "GiB of Memory per vCPU", "Instance Storage",
		"Network Performance", "Spot (avg)", "On Demand",
	}
	row := []string{
		"", "t3.medium", "Intel Skylake P-8175", "2", "4 GiB", "2 GiB",
		"EBS only", "Up to 5 Gigabit", "$0.0125", "$0.0416",
	}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(catalog.SheetName, cell, h))
	}
	for i, v := range row {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(catalog.SheetName, cell, v))
	}

	path := filepath.Join(t.TempDir(), "ref.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func testEstimator(t *testing.T) *Estimator {
	return &Estimator{
		Catalog:               testCatalog(t),
		BillingType:           "Spot (avg)",
		MinimumScratchGB:      50,
		StorageCostPerGBMonth: 0.08,
	}
}

func metricsRow() model.JobMetricsRow {
	return model.JobMetricsRow{
		JobType:      "job-ingest:v1.1",
		InstanceType: "t3.medium",
		JobInstanceMetrics: model.JobInstanceMetrics{
			JobRuntimeMinutes: model.MetricOf(60),
			StageInSizeGB:     model.MetricOf(2),
			StageOutSizeGB:    model.MetricOf(1),
			StageInRateMBps:   model.MetricOf(1),
			StageOutRateMBps:  model.MetricOf(1),
			Count:             100,
			DurationDays:      10,
		},
	}
}

func TestEstimateJoinsCatalogRow(t *testing.T) {
	estimates := testEstimator(t).Estimate([]model.JobMetricsRow{metricsRow()})
	require.Len(t, estimates, 1)
	pe := estimates[0]

	assert.Equal(t, "job-ingest:v1.1", pe.JobType)
	assert.Equal(t, "t3.medium", pe.InstanceType)
	assert.Equal(t, "Spot (avg)", pe.ComputeBillingType)
	assert.Equal(t, model.MetricOf(0.0125), pe.ComputeCostPerHour)
	assert.Equal(t, "Intel Skylake P-8175", pe.PhysicalProcessor)
	assert.Equal(t, "2", pe.VCPUs)
	assert.Equal(t, "4 GiB", pe.InstanceMemoryGiB)
	assert.Equal(t, "2 GiB", pe.MemoryPerVCPU)
	assert.Equal(t, "EBS only", pe.InstanceStorage)
	assert.Equal(t, "Up to 5 Gigabit", pe.NetworkPerformance)
	assert.Equal(t, 0.08, pe.StorageCostPerGBMonth)
}

func TestEstimateDerivedColumns(t *testing.T) {
	estimates := testEstimator(t).Estimate([]model.JobMetricsRow{metricsRow()})
	require.Len(t, estimates, 1)
	pe := estimates[0]

	// 2 GB at 1 MB/s: 2048 s; 1 GB at 1 MB/s: 1024 s.
	require.True(t, pe.StageInTimeMinutes.Valid)
	assert.InDelta(t, 2048.0/60.0, pe.StageInTimeMinutes.Value, 1e-9)
	require.True(t, pe.StageOutTimeMinutes.Valid)
	assert.InDelta(t, 1024.0/60.0, pe.StageOutTimeMinutes.Value, 1e-9)

	require.True(t, pe.RuntimeWithMovementHours.Valid)
	assert.InDelta(t, 111.2/60.0, pe.RuntimeWithMovementHours.Value, 1e-9)
	assert.Equal(t, model.MetricOf(1), pe.RuntimeForCostHours)

	require.True(t, pe.ComputeCostPerRun.Valid)
	assert.InDelta(t, 0.0125, pe.ComputeCostPerRun.Value, 1e-9)

	// Scratch floors at the 50 GB minimum: 2 + 1*2.5 = 4.5.
	assert.Equal(t, model.MetricOf(50), pe.ScratchDiskGB)
	require.True(t, pe.ScratchDiskCostPerRun.Valid)
	assert.InDelta(t, 50*0.08*(111.2/60.0)*2.5, pe.ScratchDiskCostPerRun.Value, 1e-9)
	require.True(t, pe.SingleRunCost.Valid)
	assert.InDelta(t, 111.2/60.0+50*0.08*(111.2/60.0)*2.5, pe.SingleRunCost.Value, 1e-9)
}

func TestEstimateScratchAboveFloor(t *testing.T) {
	row := metricsRow()
	row.StageInSizeGB = model.MetricOf(40)
	row.StageOutSizeGB = model.MetricOf(20)

	estimates := testEstimator(t).Estimate([]model.JobMetricsRow{row})
	// 40 + 20*2.5 = 90, above the 50 GB minimum.
	assert.Equal(t, model.MetricOf(90), estimates[0].ScratchDiskGB)
}

func TestEstimateMissingSizeLeavesScratchMissing(t *testing.T) {
	row := metricsRow()
	row.StageOutSizeGB = model.NoData

	pe := testEstimator(t).Estimate([]model.JobMetricsRow{row})[0]
	assert.Equal(t, model.NoData, pe.ScratchDiskGB)
	assert.Equal(t, model.NoData, pe.ScratchDiskCostPerRun)
	assert.Equal(t, model.NoData, pe.StageOutTimeMinutes)
}

func TestEstimateZeroRateIsMissingNotInfinite(t *testing.T) {
	row := metricsRow()
	row.StageInRateMBps = model.MetricOf(0)

	pe := testEstimator(t).Estimate([]model.JobMetricsRow{row})[0]
	assert.Equal(t, model.NoData, pe.StageInTimeMinutes)
	assert.Equal(t, model.NoData, pe.RuntimeWithMovementHours)
	assert.Equal(t, model.NoData, pe.SingleRunCost)
	// The cost-basis runtime does not depend on transfer rates.
	assert.Equal(t, model.MetricOf(1), pe.RuntimeForCostHours)
}

func TestEstimateCatalogMissDegradesRow(t *testing.T) {
	row := metricsRow()
	row.InstanceType = "x9.metal"

	pe := testEstimator(t).Estimate([]model.JobMetricsRow{row})[0]
	assert.Equal(t, "x9.metal", pe.InstanceType)
	assert.Empty(t, pe.PhysicalProcessor)
	assert.Equal(t, model.NoData, pe.ComputeCostPerHour)
	assert.Equal(t, model.NoData, pe.ComputeCostPerRun)
	// Columns independent of the catalog are still derived.
	assert.Equal(t, model.MetricOf(50), pe.ScratchDiskGB)
	assert.True(t, pe.RuntimeWithMovementHours.Valid)
}

func TestEstimateUnknownBillingTypeHasNoPrice(t *testing.T) {
	e := testEstimator(t)
	e.BillingType = "Reserved (3yr)"

	pe := e.Estimate([]model.JobMetricsRow{metricsRow()})[0]
	assert.Equal(t, "Reserved (3yr)", pe.ComputeBillingType)
	assert.Equal(t, model.NoData, pe.ComputeCostPerHour)
	assert.Equal(t, model.NoData, pe.ComputeCostPerRun)
}
