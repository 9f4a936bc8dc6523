package scorecard

import "fmt"

// Metric names one scoring dimension.
type Metric string

// The closed set of metrics, in report order.
const (
	RampUp               Metric = "RampUp"
	Correctness          Metric = "Correctness"
	BusFactor            Metric = "BusFactor"
	ResponsiveMaintainer Metric = "ResponsiveMaintainer"
	License              Metric = "License"
)

// Metrics lists every metric in report order.
var Metrics = []Metric{RampUp, Correctness, BusFactor, ResponsiveMaintainer, License}

func (m Metric) index() int {
	switch m {
	case RampUp:
		return 0
	case Correctness:
		return 1
	case BusFactor:
		return 2
	case ResponsiveMaintainer:
		return 3
	case License:
		return 4
	}
	return -1
}

// Valid reports whether m is one of [Metrics].
func (m Metric) Valid() bool { return m.index() >= 0 }

func (m Metric) String() string { return string(m) }

// ParseMetric returns the metric with the given name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}
