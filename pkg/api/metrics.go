package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type requestMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

func newRequestMetrics(reg prometheus.Registerer) *requestMetrics {
	factory := promauto.With(reg)
	return &requestMetrics{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "hpmri_http_duration_seconds",
			Help: "Duration of HTTP requests.",
		}, []string{"path"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hpmri_http_requests_total",
			Help: "Number of HTTP requests.",
		}, []string{"path"}),
	}
}

// middleware records per-route counts and durations, labelled by the route
// template so dataset indices do not explode the label set.
func (m *requestMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(path).Inc()
	})
}
