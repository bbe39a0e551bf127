package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "homematch"

// Metrics holds the Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	answersSubmitted        prometheus.Counter
	questionnairesCompleted prometheus.Counter
	degradedLoads           prometheus.Counter
	recommendationsServed   *prometheus.CounterVec
	cacheLookups            *prometheus.CounterVec
	breakerStates           *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		answersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "answers_submitted_total",
			Help:      "Total number of questionnaire answers recorded",
		}),
		questionnairesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "questionnaires_completed_total",
			Help:      "Total number of finalized questionnaires",
		}),
		degradedLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "question_bank_degraded_loads_total",
			Help:      "Question bank loads that fell back to placeholder questions",
		}),
		recommendationsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recommendations_served_total",
			Help:      "Recommendation responses by view",
		}, []string{"view"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result",
		}, []string{"cache", "result"}),
		breakerStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state transitions",
		}, []string{"breaker", "state"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.answersSubmitted,
		m.questionnairesCompleted,
		m.degradedLoads,
		m.recommendationsServed,
		m.cacheLookups,
		m.breakerStates,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) AnswersSubmitted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.answersSubmitted.Add(float64(n))
}

func (m *Metrics) QuestionnaireCompleted() {
	if m == nil {
		return
	}
	m.questionnairesCompleted.Inc()
}

func (m *Metrics) DegradedLoad() {
	if m == nil {
		return
	}
	m.degradedLoads.Inc()
}

func (m *Metrics) RecommendationsServed(view string) {
	if m == nil {
		return
	}
	m.recommendationsServed.WithLabelValues(view).Inc()
}

func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) BreakerStateChanged(breaker, state string) {
	if m == nil {
		return
	}
	m.breakerStates.WithLabelValues(breaker, state).Inc()
}
