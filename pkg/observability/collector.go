package observability

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// durationBuckets are the upper bounds, in seconds, of the evaluation
// duration histogram.
var durationBuckets = []float64{0.5, 1, 2, 5, 10, 30, 60}

// counterVec is a set of counters sharing a name and label names.
type counterVec struct {
	name   string
	help   string
	labels []string
	values map[string]float64
	pairs  map[string][]string
}

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{
		name:   name,
		help:   help,
		labels: labels,
		values: make(map[string]float64),
		pairs:  make(map[string][]string),
	}
}

func (v *counterVec) add(delta float64, labelValues ...string) {
	key := strings.Join(labelValues, "\xff")
	v.values[key] += delta
	v.pairs[key] = labelValues
}

func (v *counterVec) family() *dto.MetricFamily {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mf := &dto.MetricFamily{
		Name: proto.String(v.name),
		Help: proto.String(v.help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label:   labelPairs(v.labels, v.pairs[k]),
			Counter: &dto.Counter{Value: proto.Float64(v.values[k])},
		})
	}
	return mf
}

func labelPairs(names, values []string) []*dto.LabelPair {
	pairs := make([]*dto.LabelPair, len(names))
	for i, n := range names {
		pairs[i] = &dto.LabelPair{Name: proto.String(n), Value: proto.String(values[i])}
	}
	return pairs
}

// Collector aggregates hook events into Prometheus metric families.
// It implements [EvaluationHooks], [HTTPHooks] and [CacheHooks] and is safe
// for concurrent use.
type Collector struct {
	mu sync.Mutex

	evaluations   *counterVec
	metricResults *counterVec
	metricLatency *counterVec
	httpRequests  *counterVec
	httpErrors    *counterVec
	cacheOps      *counterVec

	durationCount   uint64
	durationSum     float64
	durationBuckets []uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		evaluations:     newCounterVec("pkgscore_evaluations_total", "Evaluations by outcome.", "outcome"),
		metricResults:   newCounterVec("pkgscore_metric_results_total", "Metric results by metric and outcome.", "metric", "outcome"),
		metricLatency:   newCounterVec("pkgscore_metric_latency_seconds_total", "Summed external-call latency per metric.", "metric"),
		httpRequests:    newCounterVec("pkgscore_http_responses_total", "Provider HTTP responses by host and status code.", "host", "code"),
		httpErrors:      newCounterVec("pkgscore_http_errors_total", "Provider HTTP transport errors by host.", "host"),
		cacheOps:        newCounterVec("pkgscore_cache_operations_total", "Cache operations by namespace and operation.", "namespace", "op"),
		durationBuckets: make([]uint64, len(durationBuckets)),
	}
}

func (c *Collector) OnEvaluateStart(context.Context, string) {}

func (c *Collector) OnEvaluateComplete(_ context.Context, _ string, _ float64, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.evaluations.add(1, outcome)

	secs := d.Seconds()
	c.durationCount++
	c.durationSum += secs
	for i, ub := range durationBuckets {
		if secs <= ub {
			c.durationBuckets[i]++
		}
	}
}

func (c *Collector) OnMetricComplete(_ context.Context, metric string, _ float64, latency time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "defaulted"
	}
	c.metricResults.add(1, metric, outcome)
	c.metricLatency.add(latency.Seconds(), metric)
}

func (c *Collector) OnRequest(context.Context, string, string, string) {}

func (c *Collector) OnResponse(_ context.Context, _, host, _ string, statusCode int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpRequests.add(1, host, strconv.Itoa(statusCode))
}

func (c *Collector) OnError(_ context.Context, _, host, _ string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpErrors.add(1, host)
}

func (c *Collector) OnCacheHit(_ context.Context, namespace string) {
	c.cacheOp(namespace, "hit")
}

func (c *Collector) OnCacheMiss(_ context.Context, namespace string) {
	c.cacheOp(namespace, "miss")
}

func (c *Collector) OnCacheSet(_ context.Context, namespace string, _ int) {
	c.cacheOp(namespace, "set")
}

func (c *Collector) cacheOp(namespace, op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheOps.add(1, namespace, op)
}

// Families returns a snapshot of all metric families.
func (c *Collector) Families() []*dto.MetricFamily {
	c.mu.Lock()
	defer c.mu.Unlock()

	buckets := make([]*dto.Bucket, len(durationBuckets))
	for i, ub := range durationBuckets {
		buckets[i] = &dto.Bucket{
			UpperBound:      proto.Float64(ub),
			CumulativeCount: proto.Uint64(c.durationBuckets[i]),
		}
	}
	duration := &dto.MetricFamily{
		Name: proto.String("pkgscore_evaluation_duration_seconds"),
		Help: proto.String("Wall-clock duration of evaluations."),
		Type: dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{
			Histogram: &dto.Histogram{
				SampleCount: proto.Uint64(c.durationCount),
				SampleSum:   proto.Float64(c.durationSum),
				Bucket:      buckets,
			},
		}},
	}

	return []*dto.MetricFamily{
		c.evaluations.family(),
		duration,
		c.metricResults.family(),
		c.metricLatency.family(),
		c.httpRequests.family(),
		c.httpErrors.family(),
		c.cacheOps.family(),
	}
}

// WriteText writes all metric families in the Prometheus text format.
// Families without samples are skipped.
func (c *Collector) WriteText(w io.Writer) error {
	for _, mf := range c.Families() {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ EvaluationHooks = (*Collector)(nil)
	_ HTTPHooks       = (*Collector)(nil)
	_ CacheHooks      = (*Collector)(nil)
)
