package model

// ProductEstimate is one cost-derivation row: a JobMetricsRow joined
// with its hardware catalog entry plus the derived storage, transfer
// time, and per-run cost columns. Hardware columns are carried as the
// catalog's display strings; rows whose instance type is absent from
// the catalog keep empty strings and NoData cost fields.
type ProductEstimate struct {
	JobType            string
	JobRuntimeMinutes  Metric
	StageInSizeGB      Metric
	StageOutSizeGB     Metric
	InstanceType       string
	ComputeBillingType string
	ComputeCostPerHour Metric

	PhysicalProcessor string
	VCPUs             string
	InstanceMemoryGiB string
	MemoryPerVCPU     string
	InstanceStorage   string

	ScratchDiskGB         Metric
	StorageCostPerGBMonth float64
	NetworkPerformance    string

	StageInRateMBps  Metric
	StageOutRateMBps Metric

	StageInTimeMinutes       Metric
	StageOutTimeMinutes      Metric
	RuntimeWithMovementHours Metric
	RuntimeForCostHours      Metric

	ComputeCostPerRun     Metric
	ScratchDiskCostPerRun Metric
	SingleRunCost         Metric
}
