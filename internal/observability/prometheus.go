package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus exports the service metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	lookups      *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	requests     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	payments     *prometheus.CounterVec
	payDuration  *prometheus.HistogramVec
	events       *prometheus.CounterVec
}

func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "load_duration_seconds",
				Help:      "Duration of loads from the store on cache miss",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"cache"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		reqDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Committed order state transitions",
			},
			[]string{"from", "to"},
		),
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "calls_total",
				Help:      "Payment adapter calls by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		payDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "call_duration_seconds",
				Help:      "Duration of payment adapter calls",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Order events handed to the broker",
			},
			[]string{"result"},
		),
	}
	p.registry.MustRegister(
		p.lookups, p.loadDuration,
		p.requests, p.reqDuration,
		p.transitions,
		p.payments, p.payDuration,
		p.events,
	)
	return p
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) ObserveLookup(cache string, hit bool, loadMs float64) {
	if hit {
		p.lookups.WithLabelValues(cache, "hit").Inc()
		return
	}
	p.lookups.WithLabelValues(cache, "miss").Inc()
	p.loadDuration.WithLabelValues(cache).Observe(loadMs / 1000)
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, durMs float64) {
	p.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	p.reqDuration.WithLabelValues(method, route).Observe(durMs / 1000)
}

func (p *Prometheus) ObserveTransition(from, to string) {
	p.transitions.WithLabelValues(from, to).Inc()
}

func (p *Prometheus) ObservePayment(method, outcome string, durMs float64) {
	p.payments.WithLabelValues(method, outcome).Inc()
	p.payDuration.WithLabelValues(method).Observe(durMs / 1000)
}

func (p *Prometheus) ObserveEvent(ok bool) {
	if ok {
		p.events.WithLabelValues("ok").Inc()
		return
	}
	p.events.WithLabelValues("error").Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
