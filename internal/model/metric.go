package model

import "math"

// Metric is an optional float64 measurement. The zero value is the
// explicit "no data" marker: a query window that matched zero documents
// yields an invalid Metric, never a zero-valued one.
type Metric struct {
	Value float64
	Valid bool
}

// MetricOf returns a valid Metric holding v.
func MetricOf(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// NoData is the missing-value marker.
var NoData = Metric{}

// Round returns m rounded to the given number of decimal places.
// Missing metrics are returned unchanged. Rounding is idempotent.
func (m Metric) Round(places int) Metric {
	if !m.Valid {
		return m
	}
	return MetricOf(RoundTo(m.Value, places))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Add returns m + other, or NoData when either operand is missing.
func (m Metric) Add(other Metric) Metric {
	if !m.Valid || !other.Valid {
		return NoData
	}
	return MetricOf(m.Value + other.Value)
}

// Mul returns m * other, or NoData when either operand is missing.
func (m Metric) Mul(other Metric) Metric {
	if !m.Valid || !other.Valid {
		return NoData
	}
	return MetricOf(m.Value * other.Value)
}

// Div returns m / other. A missing or zero divisor yields NoData, never
// an infinite or NaN value.
func (m Metric) Div(other Metric) Metric {
	if !m.Valid || !other.Valid || other.Value == 0 {
		return NoData
	}
	return MetricOf(m.Value / other.Value)
}

// Scale returns m * factor, or NoData when m is missing.
func (m Metric) Scale(factor float64) Metric {
	if !m.Valid {
		return NoData
	}
	return MetricOf(m.Value * factor)
}
