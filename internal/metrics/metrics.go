package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizlens_questions_total",
		Help: "Questions answered, labeled by classified intent.",
	}, []string{"intent"})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizlens_cache_hits_total",
		Help: "Questions served from the result cache.",
	})

	TableLoadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizlens_table_loads_total",
		Help: "Tables loaded or replaced.",
	})

	RecordsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizlens_records_generated_total",
		Help: "Synthetic transactions produced by the generator.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizlens_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request durations. Mounted once around the whole
// router; paths are deliberately not a label to keep cardinality bounded.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestDuration.WithLabelValues(r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
