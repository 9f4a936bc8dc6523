package scorecard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the serialized form of a scorecard. Field order is fixed; scores
// and latencies (seconds) are rounded to three decimals.
type Report struct {
	URL                         string  `json:"URL" yaml:"URL"`
	NetScore                    float64 `json:"NetScore" yaml:"NetScore"`
	NetScoreLatency             float64 `json:"NetScore_Latency" yaml:"NetScore_Latency"`
	RampUp                      float64 `json:"RampUp" yaml:"RampUp"`
	RampUpLatency               float64 `json:"RampUp_Latency" yaml:"RampUp_Latency"`
	Correctness                 float64 `json:"Correctness" yaml:"Correctness"`
	CorrectnessLatency          float64 `json:"Correctness_Latency" yaml:"Correctness_Latency"`
	BusFactor                   float64 `json:"BusFactor" yaml:"BusFactor"`
	BusFactorLatency            float64 `json:"BusFactor_Latency" yaml:"BusFactor_Latency"`
	ResponsiveMaintainer        float64 `json:"ResponsiveMaintainer" yaml:"ResponsiveMaintainer"`
	ResponsiveMaintainerLatency float64 `json:"ResponsiveMaintainer_Latency" yaml:"ResponsiveMaintainer_Latency"`
	License                     float64 `json:"License" yaml:"License"`
	LicenseLatency              float64 `json:"License_Latency" yaml:"License_Latency"`
}

// Round rounds v to three decimals.
func Round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func seconds(d time.Duration) float64 {
	return Round(d.Seconds())
}

// Report returns the serialized view of s.
func (s *Scorecard) Report() Report {
	return Report{
		URL:                         s.URL,
		NetScore:                    Round(s.netScore),
		NetScoreLatency:             seconds(s.netScoreLatency),
		RampUp:                      Round(s.Score(RampUp)),
		RampUpLatency:               seconds(s.Latency(RampUp)),
		Correctness:                 Round(s.Score(Correctness)),
		CorrectnessLatency:          seconds(s.Latency(Correctness)),
		BusFactor:                   Round(s.Score(BusFactor)),
		BusFactorLatency:            seconds(s.Latency(BusFactor)),
		ResponsiveMaintainer:        Round(s.Score(ResponsiveMaintainer)),
		ResponsiveMaintainerLatency: seconds(s.Latency(ResponsiveMaintainer)),
		License:                     Round(s.Score(License)),
		LicenseLatency:              seconds(s.Latency(License)),
	}
}

// MarshalJSON encodes the scorecard as its [Report].
func (s *Scorecard) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Report())
}

// Score returns the reported score of m.
func (r Report) Score(m Metric) float64 {
	switch m {
	case RampUp:
		return r.RampUp
	case Correctness:
		return r.Correctness
	case BusFactor:
		return r.BusFactor
	case ResponsiveMaintainer:
		return r.ResponsiveMaintainer
	case License:
		return r.License
	}
	return 0
}

// Latency returns the reported latency of m in seconds.
func (r Report) Latency(m Metric) float64 {
	switch m {
	case RampUp:
		return r.RampUpLatency
	case Correctness:
		return r.CorrectnessLatency
	case BusFactor:
		return r.BusFactorLatency
	case ResponsiveMaintainer:
		return r.ResponsiveMaintainerLatency
	case License:
		return r.LicenseLatency
	}
	return 0
}

// JSON encodes the report as a single line without a trailing newline.
func (r Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// YAML encodes the report as a YAML mapping in report field order.
func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// ParseReport decodes one JSON report line. Unknown fields are rejected so
// that a malformed line is not silently read as zero scores.
func ParseReport(data []byte) (Report, error) {
	var r Report
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return Report{}, fmt.Errorf("parse report: %w", err)
	}
	if r.URL == "" {
		return Report{}, fmt.Errorf("parse report: missing URL")
	}
	return r, nil
}
