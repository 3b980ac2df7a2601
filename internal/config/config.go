// Package config holds run inputs and the tunable cost-model policy.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Inputs are the user-supplied run parameters that need validation
// before any query is issued.
type Inputs struct {
	ESURL     string
	DaysBack  string
	TimeStart string
	TimeEnd   string
}

// Validate checks the inputs and resolves the lookback day count.
// A non-integer or non-positive DaysBack falls back to the explicit
// window with a warning, matching the lookback-XOR-window contract:
// when neither form is usable the run must not start.
func (in Inputs) Validate(log *slog.Logger) (daysBack int, err error) {
	if in.ESURL == "" {
		return 0, fmt.Errorf(`missing argument "es_url"`)
	}
	log.Debug("es_url", "value", in.ESURL)

	if in.DaysBack != "" {
		n, parseErr := strconv.Atoi(in.DaysBack)
		switch {
		case parseErr != nil:
			log.Warn(`invalid format for "days_back", expected an integer`)
		case n > 0:
			daysBack = n
			log.Debug("days_back", "value", n)
		}
	}

	if daysBack == 0 && (in.TimeStart == "" || in.TimeEnd == "") {
		return 0, fmt.Errorf(`missing argument "days_back", or both "time_start" and "time_end"`)
	}
	return daysBack, nil
}

// Policy holds the cost-model and rounding constants. The defaults
// mirror the established report conventions; a YAML file can override
// them per run.
type Policy struct {
	// RoundingPrecision is the number of decimal places every metric
	// is rounded to.
	RoundingPrecision int `yaml:"rounding_precision" validate:"gte=0,lte=10"`
	// BillingType is the catalog price column used for compute cost,
	// e.g. "Spot (avg)" or "On Demand".
	BillingType string `yaml:"billing_type" validate:"required"`
	// MinimumScratchGB floors the provisioned scratch-disk estimate.
	MinimumScratchGB float64 `yaml:"minimum_scratch_gb" validate:"gte=0"`
	// StorageCostPerGBMonth is the scratch-volume price in $/GB/month.
	StorageCostPerGBMonth float64 `yaml:"storage_cost_per_gb_month" validate:"gte=0"`
}

// DefaultPolicy returns the built-in constants.
func DefaultPolicy() Policy {
	return Policy{
		RoundingPrecision:     4,
		BillingType:           "Spot (avg)",
		MinimumScratchGB:      50,
		StorageCostPerGBMonth: 0.08,
	}
}

// LoadPolicy reads and validates a policy file; an empty path keeps
// the defaults. File values override defaults field by field.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy YAML %s: %w", path, err)
	}
	if err := validator.New().Struct(p); err != nil {
		return Policy{}, fmt.Errorf("validate policy %s: %w", path, err)
	}
	return p, nil
}
