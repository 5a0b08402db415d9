package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	dto "github.com/prometheus/client_model/go"

	"github.com/heartmarshall/legalpulse/internal/config"
)

// Job outcomes recorded in metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics records job runs and pushes them to a Pushgateway.
type Metrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec

	pushURL  string
	instance string
}

// NewMetrics creates the job collectors on a private registry.
func NewMetrics(cfg config.MetricsConfig) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalpulse",
			Name:      "job_runs_total",
			Help:      "Job runs by outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legalpulse",
			Name:      "job_duration_seconds",
			Help:      "Wall-clock duration of job runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "legalpulse",
			Name:      "job_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"job"}),
		pushURL:  cfg.PushgatewayURL,
		instance: cfg.Instance,
	}
	m.registry.MustRegister(m.runs, m.duration, m.lastSuccess)
	return m
}

// Observe records one finished run.
func (m *Metrics) Observe(job, outcome string, took time.Duration, at time.Time) {
	m.runs.WithLabelValues(job, outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	m.duration.WithLabelValues(job).Observe(took.Seconds())
	if outcome == OutcomeSuccess {
		m.lastSuccess.WithLabelValues(job).Set(float64(at.Unix()))
	}
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// Push sends the series of one job to the Pushgateway. It is a no-op when
// no gateway is configured.
func (m *Metrics) Push(ctx context.Context, job string) error {
	if m.pushURL == "" {
		return nil
	}
	p := push.New(m.pushURL, job).Gatherer(jobGatherer(m.registry, job))
	if m.instance != "" {
		p = p.Grouping("instance", m.instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics for %s: %w", job, err)
	}
	return nil
}

// jobGatherer keeps only the series of one job and drops their job label,
// which the gateway takes from the grouping key instead.
func jobGatherer(g prometheus.Gatherer, job string) prometheus.Gatherer {
	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		families, err := g.Gather()
		if err != nil {
			return nil, err
		}
		out := families[:0]
		for _, mf := range families {
			kept := mf.Metric[:0]
			for _, metric := range mf.Metric {
				if labels, ok := withoutJob(metric.GetLabel(), job); ok {
					metric.Label = labels
					kept = append(kept, metric)
				}
			}
			if len(kept) > 0 {
				mf.Metric = kept
				out = append(out, mf)
			}
		}
		return out, nil
	})
}

// withoutJob returns labels minus the job pair, and whether that pair named
// job.
func withoutJob(labels []*dto.LabelPair, job string) ([]*dto.LabelPair, bool) {
	out := make([]*dto.LabelPair, 0, len(labels))
	found := false
	for _, lp := range labels {
		if lp.GetName() == "job" {
			found = lp.GetValue() == job
			continue
		}
		out = append(out, lp)
	}
	return out, found
}
