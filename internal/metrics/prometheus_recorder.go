package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "readmegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	runOutcomes   *prom.CounterVec
	headings      prom.Gauge
	references    prom.Counter
	collisions    prom.Counter
}

// NewPrometheusRecorder constructs and registers the run metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by final outcome",
		}, []string{"outcome"}),
		headings: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "headings",
			Help:      "Distinct reference keys in the last link table",
		}),
		references: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "references_total",
			Help:      "Shorthand references rewritten",
		}),
		collisions: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Headings that overwrote an earlier heading with the same key",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runOutcomes, pr.headings, pr.references, pr.collisions)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetHeadings(n int) {
	if p == nil {
		return
	}
	p.headings.Set(float64(n))
}

func (p *PrometheusRecorder) AddReferences(n int) {
	if p == nil {
		return
	}
	p.references.Add(float64(n))
}

func (p *PrometheusRecorder) AddCollisions(n int) {
	if p == nil {
		return
	}
	p.collisions.Add(float64(n))
}
