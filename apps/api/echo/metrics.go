package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics collects request-level Prometheus metrics for the API.
type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "darasa_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "darasa_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "darasa_logins_total",
			Help: "Total login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	reg.MustRegister(m.requests, m.latency, m.logins)
	return m
}

// middleware records a counter and latency observation per request. Routes
// are labeled by their registered pattern, not the raw URL.
func (m *metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				status = statusForError(err)
			}
			route := ctx.Path()
			m.requests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *metrics) recordLogin(method string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.logins.WithLabelValues(method, outcome).Inc()
}
