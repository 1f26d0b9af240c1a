package adapter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics receives engine activity counters.
type Metrics interface {
	HandleAcquired(kind string)
	HandleReleased(kind string)
	CallbackFired(reason string)
	ErrorRecorded(kind string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

// HandleAcquired implements Metrics.
func (NoopMetrics) HandleAcquired(string) {}

// HandleReleased implements Metrics.
func (NoopMetrics) HandleReleased(string) {}

// CallbackFired implements Metrics.
func (NoopMetrics) CallbackFired(string) {}

// ErrorRecorded implements Metrics.
func (NoopMetrics) ErrorRecorded(string) {}

// PromMetrics exports engine activity as Prometheus collectors.
type PromMetrics struct {
	gatherer prometheus.Gatherer

	LiveHandles     prometheus.Gauge
	HandlesAcquired *prometheus.CounterVec
	HandlesReleased *prometheus.CounterVec
	CallbacksFired  *prometheus.CounterVec
	ErrorsRecorded  *prometheus.CounterVec
}

// NewPromMetrics registers the engine collectors against reg, defaulting to
// the global Prometheus registry when nil.
func NewPromMetrics(reg prometheus.Registerer) (*PromMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	live, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vpiscope_live_handles",
		Help: "Number of handles currently issued and not released.",
	}), "vpiscope_live_handles")
	if err != nil {
		return nil, err
	}

	acquired, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vpiscope_handles_acquired_total",
		Help: "Handles issued, labeled by object kind.",
	}, []string{"kind"}), "vpiscope_handles_acquired_total")
	if err != nil {
		return nil, err
	}

	released, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vpiscope_handles_released_total",
		Help: "Handles released, labeled by object kind.",
	}, []string{"kind"}), "vpiscope_handles_released_total")
	if err != nil {
		return nil, err
	}

	fired, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vpiscope_callbacks_fired_total",
		Help: "Callback deliveries, labeled by reason.",
	}, []string{"reason"}), "vpiscope_callbacks_fired_total")
	if err != nil {
		return nil, err
	}

	errs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vpiscope_errors_total",
		Help: "Errors recorded for ChkError, labeled by kind.",
	}, []string{"kind"}), "vpiscope_errors_total")
	if err != nil {
		return nil, err
	}

	return &PromMetrics{
		gatherer:        gatherer,
		LiveHandles:     live,
		HandlesAcquired: acquired,
		HandlesReleased: released,
		CallbacksFired:  fired,
		ErrorsRecorded:  errs,
	}, nil
}

// HandleAcquired implements Metrics.
func (p *PromMetrics) HandleAcquired(kind string) {
	p.LiveHandles.Inc()
	p.HandlesAcquired.WithLabelValues(kind).Inc()
}

// HandleReleased implements Metrics.
func (p *PromMetrics) HandleReleased(kind string) {
	p.LiveHandles.Dec()
	p.HandlesReleased.WithLabelValues(kind).Inc()
}

// CallbackFired implements Metrics.
func (p *PromMetrics) CallbackFired(reason string) {
	p.CallbacksFired.WithLabelValues(reason).Inc()
}

// ErrorRecorded implements Metrics.
func (p *PromMetrics) ErrorRecorded(kind string) {
	p.ErrorsRecorded.WithLabelValues(kind).Inc()
}

// Samples gathers every vpiscope series, sorted by series name.
func (p *PromMetrics) Samples() ([]Sample, error) {
	families, err := p.gatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var out []Sample

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "vpiscope_") {
			continue
		}

		for _, metric := range mf.GetMetric() {
			out = append(out, Sample{
				Series: seriesName(mf.GetName(), metric.GetLabel()),
				Value:  sampleValue(mf.GetType(), metric),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Series < out[j].Series })

	return out, nil
}

// Sample is one gathered series.
type Sample struct {
	Series string
	Value  float64
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}

	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}

	return name + "{" + strings.Join(parts, ",") + "}"
}

func sampleValue(kind dto.MetricType, metric *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	default:
		return 0
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}

			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}

		return nil, err
	}

	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}

			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}

		return nil, err
	}

	return gauge, nil
}
