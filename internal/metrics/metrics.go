// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	articlesCreated prometheus.Counter
	articlesSeeded  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
// regがnilの場合は専用のレジストリを新規作成する。
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogd_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogd_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		articlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogd_articles_created_total",
			Help: "作成APIで作成された記事の合計数",
		}),
		articlesSeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogd_articles_seeded_total",
			Help: "シード処理で投入された記事の合計数",
		}),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.requestDuration,
		c.articlesCreated,
		c.articlesSeeded,
	)

	return c
}

// RecordHTTPRequest はHTTPレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordArticleCreated は作成APIでの記事作成を記録する。
func (c *Collector) RecordArticleCreated() {
	c.articlesCreated.Inc()
}

// RecordArticlesSeeded はシード処理で投入された記事数を記録する。
func (c *Collector) RecordArticlesSeeded(count int) {
	c.articlesSeeded.Add(float64(count))
}

// Handler は/metricsエンドポイント用のhttp.Handlerを返す。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware はHTTPリクエストのステータスコードとレイテンシを記録する
// ミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.RecordHTTPRequest(rec.statusCode, time.Since(start))
		})
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
