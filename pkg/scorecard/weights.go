package scorecard

import (
	"fmt"
	"math"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 0.001

// Weights defines the relative importance of each metric in the net score.
// All weights must be non-negative and sum to 1.0 (±0.001 tolerance).
type Weights struct {
	RampUp               float64 `toml:"ramp_up" json:"ramp_up" yaml:"ramp_up"`
	Correctness          float64 `toml:"correctness" json:"correctness" yaml:"correctness"`
	BusFactor            float64 `toml:"bus_factor" json:"bus_factor" yaml:"bus_factor"`
	ResponsiveMaintainer float64 `toml:"responsive_maintainer" json:"responsive_maintainer" yaml:"responsive_maintainer"`
	License              float64 `toml:"license" json:"license" yaml:"license"`
}

// DefaultWeights weighs responsiveness and correctness highest, bus factor
// and license lowest.
func DefaultWeights() Weights {
	return Weights{
		RampUp:               0.20,
		Correctness:          0.30,
		BusFactor:            0.10,
		ResponsiveMaintainer: 0.30,
		License:              0.10,
	}
}

// Of returns the weight of m, or 0 for an unknown metric.
func (w Weights) Of(m Metric) float64 {
	switch m {
	case RampUp:
		return w.RampUp
	case Correctness:
		return w.Correctness
	case BusFactor:
		return w.BusFactor
	case ResponsiveMaintainer:
		return w.ResponsiveMaintainer
	case License:
		return w.License
	}
	return 0
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.RampUp + w.Correctness + w.BusFactor + w.ResponsiveMaintainer + w.License
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	for _, m := range Metrics {
		if v := w.Of(m); v < 0 || math.IsNaN(v) {
			return fmt.Errorf("negative weight for %s: %f", m, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}
