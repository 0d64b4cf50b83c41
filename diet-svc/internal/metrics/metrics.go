package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the diet service collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dietmap",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dietmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dietmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dietmap",
		Subsystem: "catalog",
		Name:      "searches_total",
		Help:      "Restaurant searches by price mode and whether anything matched.",
	}, []string{"mode", "matched"})

	catalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dietmap",
		Subsystem: "catalog",
		Name:      "restaurants",
		Help:      "Restaurants in the current snapshot.",
	})

	dietOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dietmap",
		Subsystem: "diet",
		Name:      "operations_total",
		Help:      "Diet log mutations by operation and outcome.",
	}, []string{"op", "outcome"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		searches,
		catalogSize,
		dietOps,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler is a mux middleware; routes are labelled by template so
// ids do not explode label cardinality.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordSearch(mode string, results int) {
	searches.WithLabelValues(mode, strconv.FormatBool(results > 0)).Inc()
}

func SetCatalogSize(n int) {
	catalogSize.Set(float64(n))
}

func RecordDietOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	dietOps.WithLabelValues(op, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
