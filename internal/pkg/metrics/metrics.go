// Package metrics holds the collectors shared by the harness client, the scenario
// runner and the fake API. They live on a dedicated registry so a run can print or
// expose its own numbers without the process-wide Go collectors.
package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Registry receives every collector declared below.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// 客户端请求指标
	ClientRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "serverest_e2e_requests_total",
		Help: "Requests sent to the ServeRest API by operation and HTTP status",
	}, []string{"operation", "status"})

	ClientRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "serverest_e2e_request_duration_seconds",
		Help:    "Latency of requests sent to the ServeRest API",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"operation"})

	// 用例指标
	ScenarioCases = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "serverest_e2e_cases_total",
		Help: "Executed cases by suite and outcome",
	}, []string{"suite", "outcome"})

	ScenarioCaseDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "serverest_e2e_case_duration_seconds",
		Help:    "Wall time of a single case",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"suite"})

	// 替身服务指标
	StubRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "serverest_stub_requests_total",
		Help: "Requests served by the fake ServeRest API",
	}, []string{"method", "route", "status"})
)

// RecordRequest observes one API call. status is 0 when the call never got an answer.
func RecordRequest(operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ClientRequests.WithLabelValues(operation, label).Inc()
	ClientRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordCase(suite string, passed bool, duration time.Duration) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	ScenarioCases.WithLabelValues(suite, outcome).Inc()
	ScenarioCaseDuration.WithLabelValues(suite).Observe(duration.Seconds())
}

func RecordStubRequest(method, route string, status int) {
	StubRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Sample is one counter series flattened out of the registry.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
	Value  float64           `json:"value"`
}

// Snapshot returns every counter series currently held by Registry, sorted by name.
func Snapshot() ([]Sample, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: labelMap(m.GetLabel()),
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

// CounterValue reads a single series; a series never incremented reads as zero.
func CounterValue(vec *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.GetName()] = p.GetValue()
	}
	return out
}

// OperationStat summarises the client calls of one operation.
type OperationStat struct {
	Operation   string        `json:"operation"`
	Requests    int           `json:"requests"`
	Failures    int           `json:"failures"`
	MeanLatency time.Duration `json:"meanLatency"`
}

// Summarize folds the client collectors into one row per operation. A call counts
// as failed when it got no answer or a 5xx.
func Summarize() ([]OperationStat, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}
	stats := map[string]*OperationStat{}
	get := func(op string) *OperationStat {
		s, ok := stats[op]
		if !ok {
			s = &OperationStat{Operation: op}
			stats[op] = s
		}
		return s
	}
	for _, mf := range families {
		switch mf.GetName() {
		case "serverest_e2e_requests_total":
			for _, m := range mf.GetMetric() {
				labels := labelMap(m.GetLabel())
				s := get(labels["operation"])
				n := int(m.GetCounter().GetValue())
				s.Requests += n
				if status, err := strconv.Atoi(labels["status"]); err != nil || status >= 500 {
					s.Failures += n
				}
			}
		case "serverest_e2e_request_duration_seconds":
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				s := get(labelMap(m.GetLabel())["operation"])
				mean := h.GetSampleSum() / float64(h.GetSampleCount())
				s.MeanLatency = time.Duration(mean * float64(time.Second))
			}
		}
	}
	out := make([]OperationStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out, nil
}
