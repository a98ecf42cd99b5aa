package prediction

import (
	"cardiorisk/internal/services/risk"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordAssessment(risk.Tier, float64, bool) {}
func (n *NoopMetricsCollector) RecordValidationFailure(string)            {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                     {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                    {}
func (n *NoopMetricsCollector) RecordError(string)                        {}

// PrometheusCollector records prediction metrics in a Prometheus registry.
type PrometheusCollector struct {
	assessments        *prometheus.CounterVec
	scores             prometheus.Histogram
	validationFailures *prometheus.CounterVec
	cache              *prometheus.CounterVec
	errors             *prometheus.CounterVec
}

// NewPrometheusCollector registers the prediction metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	f := promauto.With(reg)
	return &PrometheusCollector{
		assessments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiorisk",
			Name:      "assessments_total",
			Help:      "Risk assessments scored, by tier and whether they were stored.",
		}, []string{"tier", "stored"}),
		scores: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cardiorisk",
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		validationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiorisk",
			Name:      "validation_failures_total",
			Help:      "Assessment fields rejected by the input gate.",
		}, []string{"field"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiorisk",
			Name:      "history_cache_requests_total",
			Help:      "History cache lookups by result.",
		}, []string{"result"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiorisk",
			Name:      "prediction_errors_total",
			Help:      "Prediction operations that failed.",
		}, []string{"operation"}),
	}
}

func (p *PrometheusCollector) RecordAssessment(tier risk.Tier, score float64, stored bool) {
	storedLabel := "false"
	if stored {
		storedLabel = "true"
	}
	p.assessments.WithLabelValues(string(tier), storedLabel).Inc()
	p.scores.Observe(score)
}

func (p *PrometheusCollector) RecordValidationFailure(field string) {
	p.validationFailures.WithLabelValues(field).Inc()
}

// Cache keys are per user, so they are not used as labels.
func (p *PrometheusCollector) RecordCacheHit(string) {
	p.cache.WithLabelValues("hit").Inc()
}

func (p *PrometheusCollector) RecordCacheMiss(string) {
	p.cache.WithLabelValues("miss").Inc()
}

func (p *PrometheusCollector) RecordError(operation string) {
	p.errors.WithLabelValues(operation).Inc()
}
