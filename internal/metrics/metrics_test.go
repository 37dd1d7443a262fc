package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	if c == nil {
		t.Fatal("expected non-nil Collector")
	}

	// nilレジストリでも専用レジストリが作られる
	if NewCollector(nil) == nil {
		t.Fatal("expected non-nil Collector for nil registry")
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					matched = false
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}

	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

// TestRecordHTTPRequest_CountsByStatus はステータスコード別カウンタを検証する。
func TestRecordHTTPRequest_CountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(200, 10*time.Millisecond)
	c.RecordHTTPRequest(200, 20*time.Millisecond)
	c.RecordHTTPRequest(404, 5*time.Millisecond)

	if got := counterValue(t, reg, "blogd_http_requests_total", map[string]string{"status_code": "200"}); got != 2 {
		t.Errorf("requests_total{200} = %v, want 2", got)
	}
	if got := counterValue(t, reg, "blogd_http_requests_total", map[string]string{"status_code": "404"}); got != 1 {
		t.Errorf("requests_total{404} = %v, want 1", got)
	}
}

// TestRecordArticleCounters は記事作成・シードのカウンタを検証する。
func TestRecordArticleCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordArticleCreated()
	c.RecordArticleCreated()
	c.RecordArticlesSeeded(100)

	if got := counterValue(t, reg, "blogd_articles_created_total", nil); got != 2 {
		t.Errorf("articles_created_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "blogd_articles_seeded_total", nil); got != 100 {
		t.Errorf("articles_seeded_total = %v, want 100", got)
	}
}

// TestHandler_ExposesMetrics は/metricsハンドラーがPrometheus形式で
// メトリクスを公開することを検証する。
func TestHandler_ExposesMetrics(t *testing.T) {
	c := NewCollector(nil)
	c.RecordHTTPRequest(200, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	c.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "blogd_http_requests_total") {
		t.Error("metrics output should contain blogd_http_requests_total")
	}
}

// TestMiddleware_RecordsRequests はHTTPミドルウェアがステータスを
// 記録することを検証する。
func TestMiddleware_RecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts/999", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := counterValue(t, reg, "blogd_http_requests_total", map[string]string{"status_code": "404"}); got != 1 {
		t.Errorf("requests_total{404} = %v, want 1", got)
	}
}
