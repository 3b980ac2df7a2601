// Package catalog loads the reference hardware/pricing workbook: one
// sheet of compute-instance specs with a price column per billing type.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dm/mex-go/internal/model"
)

// SheetName is the workbook sheet holding the instance reference table.
const SheetName = "ref_aws_ec2"

// The sheet starts with one blank row; the header is the second row.
const headerRow = 1

// Hardware columns the estimates consume, by header name.
const (
	colAPIName            = "API Name"
	colPhysicalProcessor  = "Physical Processor"
	colVCPUs              = "vCPUs"
	colInstanceMemoryGiB  = "Instance Memory (GiB)"
	colMemoryPerVCPU      = "GiB of Memory per vCPU"
	colInstanceStorage    = "Instance Storage"
	colNetworkPerformance = "Network Performance"
)

// colStickyFavorite is a manual sort helper in the source workbook;
// it is dropped on load.
const colStickyFavorite = "Sticky Favorite"

// Offering is one catalog row: the hardware description of an instance
// type plus its raw price cell per billing-type column. Values are kept
// as the workbook's display strings; price cells are coerced to numbers
// only at derivation time.
type Offering struct {
	APIName            string
	PhysicalProcessor  string
	VCPUs              string
	InstanceMemoryGiB  string
	MemoryPerVCPU      string
	InstanceStorage    string
	NetworkPerformance string
	Prices             map[string]string
}

// Catalog is the loaded reference table, keyed by instance API name.
// Read-only for the duration of a run.
type Catalog struct {
	offerings map[string]Offering
	billing   []string
}

// Lookup returns the offering for an instance API name.
func (c *Catalog) Lookup(apiName string) (Offering, bool) {
	off, ok := c.offerings[apiName]
	return off, ok
}

// BillingTypes returns the price column names found in the sheet, in
// sheet column order.
func (c *Catalog) BillingTypes() []string {
	return c.billing
}

// Len returns the number of offerings loaded.
func (c *Catalog) Len() int {
	return len(c.offerings)
}

// Load reads the reference sheet from the workbook at path.
func Load(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("sheet %s has no header row", SheetName)
	}

	header := rows[headerRow]
	index := make(map[string]int, len(header))
	hardware := map[string]bool{
		colAPIName: true, colPhysicalProcessor: true, colVCPUs: true,
		colInstanceMemoryGiB: true, colMemoryPerVCPU: true,
		colInstanceStorage: true, colNetworkPerformance: true,
	}
	var billing []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" || name == colStickyFavorite {
			continue
		}
		index[name] = i
		// Any named column that is not a hardware spec is a price
		// column for some billing type.
		if !hardware[name] {
			billing = append(billing, name)
		}
	}
	if _, ok := index[colAPIName]; !ok {
		return nil, fmt.Errorf("sheet %s is missing the %q column", SheetName, colAPIName)
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	offerings := make(map[string]Offering)
	for _, row := range rows[headerRow+1:] {
		apiName := cell(row, colAPIName)
		if apiName == "" {
			continue
		}
		off := Offering{
			APIName:            apiName,
			PhysicalProcessor:  cell(row, colPhysicalProcessor),
			VCPUs:              cell(row, colVCPUs),
			InstanceMemoryGiB:  cell(row, colInstanceMemoryGiB),
			MemoryPerVCPU:      cell(row, colMemoryPerVCPU),
			InstanceStorage:    cell(row, colInstanceStorage),
			NetworkPerformance: cell(row, colNetworkPerformance),
			Prices:             make(map[string]string, len(billing)),
		}
		for _, b := range billing {
			off.Prices[b] = cell(row, b)
		}
		offerings[apiName] = off
	}
	if len(offerings) == 0 {
		return nil, fmt.Errorf("sheet %s has no instance rows", SheetName)
	}

	return &Catalog{offerings: offerings, billing: billing}, nil
}

// ParsePrice coerces a price cell to a numeric metric. Currency symbols
// and thousands separators are tolerated; anything else non-numeric
// (including an empty cell) is the missing marker, not an error.
func ParsePrice(s string) model.Metric {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return model.NoData
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.NoData
	}
	return model.MetricOf(v)
}
