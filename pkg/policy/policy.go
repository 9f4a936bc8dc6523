// Package policy loads the scoring policy: metric weights, the license
// allow-list and the per-metric timeout.
//
// A policy file is TOML:
//
//	metric_timeout = "30s"
//
//	[weights]
//	ramp_up = 0.2
//	correctness = 0.3
//	bus_factor = 0.1
//	responsive_maintainer = 0.3
//	license = 0.1
//
//	[license]
//	allowed = ["MIT", "Apache-2.0"]
//
// Omitted sections keep their defaults. Use [Watch] to hot-reload a file
// while a server is running.
package policy

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgscore/pkg/errors"
	"github.com/matzehuels/pkgscore/pkg/metrics"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// DefaultMetricTimeout bounds each metric evaluation.
const DefaultMetricTimeout = 30 * time.Second

// Duration is a time.Duration that decodes from strings like "45s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Policy controls how an evaluation is scored.
type Policy struct {
	MetricTimeout Duration          `toml:"metric_timeout"`
	Weights       scorecard.Weights `toml:"weights"`
	License       LicensePolicy     `toml:"license"`
}

// LicensePolicy holds the license allow-list.
type LicensePolicy struct {
	Allowed []string `toml:"allowed"`
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		MetricTimeout: Duration(DefaultMetricTimeout),
		Weights:       scorecard.DefaultWeights(),
		License:       LicensePolicy{Allowed: append([]string(nil), metrics.DefaultAllowedLicenses...)},
	}
}

// Timeout returns the per-metric timeout.
func (p *Policy) Timeout() time.Duration {
	return time.Duration(p.MetricTimeout)
}

// Validate checks the weights and the timeout.
func (p *Policy) Validate() error {
	if p.MetricTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidPolicy, "metric_timeout must be positive, got %s", p.Timeout())
	}
	if err := p.Weights.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPolicy, err, "invalid weights")
	}
	return nil
}

// Load reads and validates the policy at path. Keys missing from the file
// keep their default values.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML policy document.
func Parse(data []byte) (*Policy, error) {
	p := Default()
	// A [weights] table replaces the default weights as a whole.
	var probe struct {
		Weights map[string]any `toml:"weights"`
	}
	md, err := toml.Decode(string(data), &probe)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "parse policy")
	}
	if md.IsDefined("weights") {
		p.Weights = scorecard.Weights{}
	}

	md, err = toml.Decode(string(data), p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "parse policy")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidPolicy, "unknown policy key %q", keys[0].String())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
