// Package scorecard holds the aggregate report of one evaluation.
//
// A [Scorecard] is seeded with the repository identity, receives exactly one
// [Dimension] per metric from the pipeline after all evaluators have settled,
// and is finalized by [Scorecard.ComputeNetScore]. Evaluators never see the
// Scorecard; the pipeline is its only writer.
package scorecard

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrAlreadyComputed is returned when the net score is computed twice or
	// a dimension is applied after the net score was computed.
	ErrAlreadyComputed = errors.New("net score already computed")

	// ErrScoreOutOfRange is returned for a dimension score outside [0, 1].
	ErrScoreOutOfRange = errors.New("score out of range [0, 1]")
)

// Dimension is the outcome of one metric.
type Dimension struct {
	Score   float64
	Latency time.Duration // summed duration of the metric's external calls
	Err     error         // non-nil when the metric was defaulted to 0/0
}

// Defaulted reports whether the dimension carries the error default.
func (d Dimension) Defaulted() bool { return d.Err != nil }

// Scorecard is the report of one evaluated package.
type Scorecard struct {
	URL   string
	Owner string
	Repo  string

	dims [5]Dimension

	netScore        float64
	netScoreLatency time.Duration
	computed        bool
}

// New creates a zeroed scorecard for the package at url, resolved to owner/repo.
func New(url, owner, repo string) *Scorecard {
	return &Scorecard{URL: url, Owner: owner, Repo: repo}
}

// Apply records the outcome of metric m.
func (s *Scorecard) Apply(m Metric, d Dimension) error {
	if s.computed {
		return ErrAlreadyComputed
	}
	i := m.index()
	if i < 0 {
		return fmt.Errorf("unknown metric %q", m)
	}
	if math.IsNaN(d.Score) || d.Score < 0 || d.Score > 1 {
		return fmt.Errorf("%s: %w: %v", m, ErrScoreOutOfRange, d.Score)
	}
	if d.Latency < 0 {
		d.Latency = 0
	}
	s.dims[i] = d
	return nil
}

// Dimension returns the recorded outcome of m.
func (s *Scorecard) Dimension(m Metric) Dimension {
	if i := m.index(); i >= 0 {
		return s.dims[i]
	}
	return Dimension{}
}

// Score returns the score of m.
func (s *Scorecard) Score(m Metric) float64 { return s.Dimension(m).Score }

// Latency returns the latency of m.
func (s *Scorecard) Latency(m Metric) time.Duration { return s.Dimension(m).Latency }

// Defaulted lists the metrics whose outcome is the error default, in report order.
func (s *Scorecard) Defaulted() []Metric {
	var out []Metric
	for _, m := range Metrics {
		if s.Dimension(m).Defaulted() {
			out = append(out, m)
		}
	}
	return out
}

// ComputeNetScore finalizes the scorecard: the net score is the weighted sum
// of the dimension scores and the net latency the same weighting of the
// dimension latencies. It may run only once.
func (s *Scorecard) ComputeNetScore(w Weights) error {
	if s.computed {
		return ErrAlreadyComputed
	}
	if err := w.Validate(); err != nil {
		return err
	}

	var net, lat float64
	for _, m := range Metrics {
		d := s.Dimension(m)
		net += w.Of(m) * d.Score
		lat += w.Of(m) * d.Latency.Seconds()
	}

	s.netScore = clamp01(net)
	s.netScoreLatency = time.Duration(lat * float64(time.Second))
	s.computed = true
	return nil
}

// Computed reports whether ComputeNetScore has run.
func (s *Scorecard) Computed() bool { return s.computed }

// NetScore returns the net score; it is 0 until ComputeNetScore has run.
func (s *Scorecard) NetScore() float64 { return s.netScore }

// NetScoreLatency returns the weighted latency.
func (s *Scorecard) NetScoreLatency() time.Duration { return s.netScoreLatency }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
