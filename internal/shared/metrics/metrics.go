package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels an analysis attempt for metrics.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeInvalidResponse
	OutcomeTransportFailed
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeInvalidResponse:
		return "invalid_response"
	case OutcomeTransportFailed:
		return "transport_failed"
	default:
		return "unexpected"
	}
}

var (
	registry = prometheus.NewRegistry()

	analysisStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Analyses started",
	})
	analysisFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_finished_total",
		Help: "Analyses finished, by outcome",
	}, []string{"outcome"})
	analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "Analysis duration in milliseconds",
		Buckets: []float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000},
	})
)

func init() {
	registry.MustRegister(
		analysisStarted,
		analysisFinished,
		analysisDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, o := range []Outcome{OutcomeCompleted, OutcomeInvalidResponse, OutcomeTransportFailed, OutcomeUnexpected} {
		analysisFinished.WithLabelValues(o.String())
	}
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStarted.Inc()
}

// ObserveAnalysis records the outcome and its duration.
func ObserveAnalysis(outcome Outcome, elapsed time.Duration) {
	analysisFinished.WithLabelValues(outcome.String()).Inc()
	ms := float64(elapsed.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	analysisDuration.Observe(ms)
}

// Handler exposes the registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
}
