// Package metrics exposes circulation counters and HTTP request metrics in
// the Prometheus text format.
//
// A nil *Metrics is valid and records nothing, so callers do not need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/library/internal/library"
)

const namespace = "library"

type Metrics struct {
	registry *prometheus.Registry

	checkouts      *prometheus.CounterVec
	returns        *prometheus.CounterVec
	lateFeeCents   prometheus.Counter
	logins         *prometheus.CounterVec
	catalogChanges *prometheus.CounterVec
	requests       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout requests by outcome (created, already_held).",
		}, []string{"outcome"}),
		returns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_total",
			Help:      "Returned books, split by whether they were overdue.",
		}, []string{"overdue"}),
		lateFeeCents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_fees_cents_total",
			Help:      "Late fees charged on return, in cents.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		catalogChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_changes_total",
			Help:      "Catalog mutations by action.",
		}, []string{"action"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.checkouts,
		m.returns,
		m.lateFeeCents,
		m.logins,
		m.catalogChanges,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterOpenCheckouts exports a gauge read from count at scrape time.
func (m *Metrics) RegisterOpenCheckouts(count func() (int64, error)) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "open_checkouts",
		Help:      "Books currently checked out.",
	}, func() float64 {
		n, err := count()
		if err != nil {
			return 0
		}
		return float64(n)
	}))
}

func (m *Metrics) ObserveCheckout(result *library.CheckoutResult) {
	if m == nil || result == nil {
		return
	}
	outcome := "created"
	if result.AlreadyCheckedOut {
		outcome = "already_held"
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReturn(receipt *library.ReturnReceipt) {
	if m == nil || receipt == nil {
		return
	}
	overdue := library.IsOverdue(receipt.Checkout, receipt.ReturnedAt)
	m.returns.WithLabelValues(strconv.FormatBool(overdue)).Inc()
	if receipt.Fee > 0 {
		m.lateFeeCents.Add(float64(receipt.Fee))
	}
}

func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failed"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCatalogChange(action string) {
	if m == nil {
		return
	}
	m.catalogChanges.WithLabelValues(action).Inc()
}

// Middleware records the latency of every request under its route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
