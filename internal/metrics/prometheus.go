package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "staticpress"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	documentDuration *prom.HistogramVec
	buildDuration    *prom.HistogramVec
	files            *prom.CounterVec
	rebuilds         *prom.CounterVec
	posts            prom.Gauge
}

// NewPrometheusRecorder creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		documentDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_transform_seconds",
			Help:      "Time spent reading and transforming one content document",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"outcome"}),
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		files: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "export_files_total",
			Help:      "Exported files by action",
		}, []string{"action"}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_rebuilds_total",
			Help:      "Preview rebuilds triggered by file changes",
		}, []string{"outcome"}),
		posts: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Posts in the current site",
		}),
	}
	reg.MustRegister(pr.documentDuration, pr.buildDuration, pr.files, pr.rebuilds, pr.posts)
	return pr
}

func (p *PrometheusRecorder) ObserveDocument(outcome Outcome, d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuild(outcome Outcome, d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFilesWritten(n int) { p.addFiles("written", n) }
func (p *PrometheusRecorder) IncFilesSkipped(n int) { p.addFiles("skipped", n) }
func (p *PrometheusRecorder) IncFilesRemoved(n int) { p.addFiles("removed", n) }

func (p *PrometheusRecorder) addFiles(action string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.files.WithLabelValues(action).Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuild(outcome Outcome) {
	if p == nil {
		return
	}
	p.rebuilds.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPosts(n int) {
	if p == nil {
		return
	}
	p.posts.Set(float64(n))
}

// HTTPHandler serves the metrics registered on reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
