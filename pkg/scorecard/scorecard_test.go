package scorecard

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefaultWeightsValid(t *testing.T) {
	w := DefaultWeights()
	if err := w.Validate(); err != nil {
		t.Fatalf("DefaultWeights invalid: %v", err)
	}
	if w.ResponsiveMaintainer < w.RampUp || w.Correctness < w.RampUp {
		t.Error("responsiveness and correctness should outweigh ramp-up")
	}
	if w.BusFactor > w.RampUp || w.License > w.RampUp {
		t.Error("bus factor and license should weigh least")
	}
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"default", DefaultWeights(), false},
		{"equal", Weights{0.2, 0.2, 0.2, 0.2, 0.2}, false},
		{"within tolerance", Weights{0.2, 0.2, 0.2, 0.2, 0.2005}, false},
		{"sum too low", Weights{0.2, 0.2, 0.2, 0.2, 0.1}, true},
		{"negative", Weights{0.6, 0.2, 0.2, 0.2, -0.2}, true},
		{"zero", Weights{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.w.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics {
		got, err := ParseMetric(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMetric(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMetric("Popularity"); err == nil {
		t.Error("unknown metric should fail")
	}
}

func TestComputeNetScoreWeightedSum(t *testing.T) {
	scores := map[Metric]float64{
		RampUp:               0.65,
		Correctness:          0.8,
		BusFactor:            0.5,
		ResponsiveMaintainer: 0.7,
		License:              1,
	}
	latencies := map[Metric]time.Duration{
		RampUp:               200 * time.Millisecond,
		Correctness:          time.Second,
		BusFactor:            100 * time.Millisecond,
		ResponsiveMaintainer: 3 * time.Second,
		License:              50 * time.Millisecond,
	}

	sc := New("https://github.com/o/r", "o", "r")
	for _, m := range Metrics {
		if err := sc.Apply(m, Dimension{Score: scores[m], Latency: latencies[m]}); err != nil {
			t.Fatal(err)
		}
	}

	w := DefaultWeights()
	if err := sc.ComputeNetScore(w); err != nil {
		t.Fatal(err)
	}

	var want, wantLat float64
	for _, m := range Metrics {
		want += w.Of(m) * scores[m]
		wantLat += w.Of(m) * latencies[m].Seconds()
	}
	if math.Abs(sc.NetScore()-want) > 1e-9 {
		t.Errorf("NetScore = %v, want %v", sc.NetScore(), want)
	}
	if math.Abs(sc.NetScoreLatency().Seconds()-wantLat) > 1e-6 {
		t.Errorf("NetScoreLatency = %v, want %vs", sc.NetScoreLatency(), wantLat)
	}
}

func TestComputeNetScoreOnce(t *testing.T) {
	sc := New("u", "o", "r")
	if err := sc.ComputeNetScore(DefaultWeights()); err != nil {
		t.Fatal(err)
	}
	if !sc.Computed() {
		t.Error("Computed() should be true")
	}
	if err := sc.ComputeNetScore(DefaultWeights()); !errors.Is(err, ErrAlreadyComputed) {
		t.Errorf("second ComputeNetScore = %v, want ErrAlreadyComputed", err)
	}
	if err := sc.Apply(RampUp, Dimension{Score: 1}); !errors.Is(err, ErrAlreadyComputed) {
		t.Errorf("Apply after finalize = %v, want ErrAlreadyComputed", err)
	}
}

func TestComputeNetScoreInvalidWeights(t *testing.T) {
	sc := New("u", "o", "r")
	if err := sc.ComputeNetScore(Weights{RampUp: 2}); err == nil {
		t.Fatal("invalid weights should fail")
	}
	if sc.Computed() {
		t.Error("failed computation must not finalize the scorecard")
	}
}

func TestApplyRejectsInvalid(t *testing.T) {
	sc := New("u", "o", "r")
	tests := []struct {
		m Metric
		d Dimension
	}{
		{"Unknown", Dimension{Score: 0.5}},
		{RampUp, Dimension{Score: 1.01}},
		{RampUp, Dimension{Score: -0.1}},
		{RampUp, Dimension{Score: math.NaN()}},
	}
	for _, tt := range tests {
		if err := sc.Apply(tt.m, tt.d); err == nil {
			t.Errorf("Apply(%s, %+v) should fail", tt.m, tt.d)
		}
	}
	if sc.Score(RampUp) != 0 {
		t.Error("rejected dimension must not be written")
	}
}

func TestDefaulted(t *testing.T) {
	sc := New("u", "o", "r")
	_ = sc.Apply(BusFactor, Dimension{Err: errors.New("timeout")})
	_ = sc.Apply(RampUp, Dimension{Score: 0.5})
	_ = sc.Apply(License, Dimension{Err: errors.New("404")})

	got := sc.Defaulted()
	if len(got) != 2 || got[0] != BusFactor || got[1] != License {
		t.Errorf("Defaulted() = %v", got)
	}
}

func TestReportFieldOrder(t *testing.T) {
	sc := New("https://github.com/o/r", "o", "r")
	_ = sc.ComputeNetScore(DefaultWeights())

	data, err := sc.Report().JSON()
	if err != nil {
		t.Fatal(err)
	}
	order := []string{
		`"URL"`, `"NetScore"`, `"NetScore_Latency"`, `"RampUp"`, `"RampUp_Latency"`,
		`"Correctness"`, `"Correctness_Latency"`, `"BusFactor"`, `"BusFactor_Latency"`,
		`"ResponsiveMaintainer"`, `"ResponsiveMaintainer_Latency"`, `"License"`, `"License_Latency"`,
	}
	s := string(data)
	last := -1
	for _, key := range order {
		i := strings.Index(s, key+":")
		if i <= last {
			t.Fatalf("field %s out of order in %s", key, s)
		}
		last = i
	}
	if strings.Contains(s, "\n") {
		t.Error("report must be a single line")
	}
}

func TestReportRounding(t *testing.T) {
	sc := New("u", "o", "r")
	_ = sc.Apply(RampUp, Dimension{Score: 0.123456, Latency: 1234567 * time.Microsecond})
	r := sc.Report()
	if r.RampUp != 0.123 {
		t.Errorf("RampUp = %v, want 0.123", r.RampUp)
	}
	if r.RampUpLatency != 1.235 {
		t.Errorf("RampUp_Latency = %v, want 1.235", r.RampUpLatency)
	}
}

func TestReportRoundTrip(t *testing.T) {
	sc := New("https://www.npmjs.com/package/express", "expressjs", "express")
	_ = sc.Apply(RampUp, Dimension{Score: 0.85, Latency: 312 * time.Millisecond})
	_ = sc.Apply(Correctness, Dimension{Score: 0.8, Latency: 1500 * time.Millisecond})
	_ = sc.Apply(BusFactor, Dimension{Score: 0.5, Latency: 90 * time.Millisecond})
	_ = sc.Apply(ResponsiveMaintainer, Dimension{Score: 0.7, Latency: 4 * time.Second})
	_ = sc.Apply(License, Dimension{Score: 1, Latency: 45 * time.Millisecond})
	_ = sc.ComputeNetScore(DefaultWeights())

	want := sc.Report()
	data, err := sc.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseReport(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
	for _, m := range Metrics {
		if got.Score(m) != want.Score(m) || got.Latency(m) != want.Latency(m) {
			t.Errorf("%s mismatch", m)
		}
	}
}

func TestParseReportErrors(t *testing.T) {
	tests := []string{
		``,
		`not json`,
		`{"NetScore":0.5}`,
		`{"URL":"u","Popularity":1}`,
	}
	for _, in := range tests {
		if _, err := ParseReport([]byte(in)); err == nil {
			t.Errorf("ParseReport(%q) should fail", in)
		}
	}
}

func TestReportYAML(t *testing.T) {
	sc := New("https://github.com/o/r", "o", "r")
	_ = sc.Apply(License, Dimension{Score: 1})
	_ = sc.ComputeNetScore(DefaultWeights())

	data, err := sc.Report().YAML()
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "URL: https://github.com/o/r\n") {
		t.Errorf("YAML should start with URL:\n%s", s)
	}
	if !strings.Contains(s, "License: 1\n") || !strings.Contains(s, "NetScore: 0.1\n") {
		t.Errorf("unexpected YAML:\n%s", s)
	}
}
