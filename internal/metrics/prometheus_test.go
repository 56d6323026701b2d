package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// gathered returns the value of the named metric whose labels include all of
// want.
func gathered(t *testing.T, reg *prom.Registry, name string, want map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, want)
	return 0
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveDocument(OutcomeSuccess, 2*time.Millisecond)
	pr.ObserveDocument(OutcomeInvalid, time.Millisecond)
	pr.ObserveBuild(OutcomeSuccess, 300*time.Millisecond)
	pr.IncFilesWritten(4)
	pr.IncFilesSkipped(2)
	pr.IncFilesRemoved(0)
	pr.IncRebuild(OutcomeError)
	pr.SetPosts(7)

	if got := gathered(t, reg, "staticpress_export_files_total", map[string]string{"action": "written"}); got != 4 {
		t.Errorf("written files = %v, want 4", got)
	}
	if got := gathered(t, reg, "staticpress_export_files_total", map[string]string{"action": "skipped"}); got != 2 {
		t.Errorf("skipped files = %v, want 2", got)
	}
	if got := gathered(t, reg, "staticpress_posts", nil); got != 7 {
		t.Errorf("posts = %v, want 7", got)
	}
	if got := gathered(t, reg, "staticpress_preview_rebuilds_total", map[string]string{"outcome": "error"}); got != 1 {
		t.Errorf("rebuilds = %v, want 1", got)
	}
}

func TestNilPrometheusRecorder(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveDocument(OutcomeSuccess, time.Millisecond)
	pr.IncFilesWritten(1)
	pr.SetPosts(1)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetPosts(3)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "staticpress_posts 3") {
		t.Errorf("metrics output missing gauge:\n%s", rec.Body.String())
	}
}
