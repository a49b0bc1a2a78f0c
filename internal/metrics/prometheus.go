package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	reg           *prom.Registry
	documents     *prom.CounterVec
	docDuration   prom.Histogram
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	workers       prom.Gauge
}

// NewPrometheusRecorder registers the qmldoc collectors on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "qmldoc",
			Name:      "documents_total",
			Help:      "Documents processed by result",
		}, []string{"result"}),
		docDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "qmldoc",
			Name:      "document_duration_seconds",
			Help:      "Time to parse, build, render and write one document",
			Buckets:   prom.ExponentialBuckets(0.001, 2, 12),
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "qmldoc",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "qmldoc",
			Name:      "build_outcomes_total",
			Help:      "Builds by final status",
		}, []string{"outcome"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: "qmldoc",
			Name:      "workers",
			Help:      "Worker pool size of the last build",
		}),
	}
	reg.MustRegister(pr.documents, pr.docDuration, pr.buildDuration, pr.buildOutcome, pr.workers)
	return pr
}

func (p *PrometheusRecorder) IncDocument(result Result) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.docDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil {
		return
	}
	p.workers.Set(float64(n))
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
