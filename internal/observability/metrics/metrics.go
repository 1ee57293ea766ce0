package metrics

import "github.com/prometheus/client_golang/prometheus"

// DemoMetrics exposes counters/histograms for the interactive demo engine.
type DemoMetrics struct {
	turnsTotal     *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	activeSessions prometheus.Gauge
	leadScore      prometheus.Histogram
}

func NewDemoMetrics(reg prometheus.Registerer) *DemoMetrics {
	m := &DemoMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "captureclient",
			Subsystem: "demo",
			Name:      "turns_total",
			Help:      "Completed demo turns by business type and outcome",
		}, []string{"business_type", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "captureclient",
			Subsystem: "demo",
			Name:      "completion_latency_seconds",
			Help:      "Latency of completion service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"business_type"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "captureclient",
			Subsystem: "demo",
			Name:      "active_sessions",
			Help:      "Live demo sessions held in memory",
		}),
		leadScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "captureclient",
			Subsystem: "demo",
			Name:      "lead_score",
			Help:      "Lead scores produced after each AI turn",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmLatency, m.activeSessions, m.leadScore)
	return m
}

func (m *DemoMetrics) ObserveTurn(businessType, status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(businessType, status).Inc()
}

func (m *DemoMetrics) ObserveLLMLatency(businessType string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(businessType).Observe(seconds)
}

func (m *DemoMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *DemoMetrics) ObserveLeadScore(score int) {
	if m == nil {
		return
	}
	m.leadScore.Observe(float64(score))
}
