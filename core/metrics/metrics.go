package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics owns a per-server Prometheus registry and the collectors fed by
// the request middleware.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a registry pre-populated with process and Go runtime
// collectors plus the host's request collectors.
func New(serverName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	labels := prometheus.Labels{"server": serverName}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "rackhost",
		Name:        "requests_total",
		Help:        "Requests handled, by method and status code.",
		ConstLabels: labels,
	}, []string{"method", "status"})
	reg.MustRegister(requests)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "rackhost",
		Name:        "request_duration_seconds",
		Help:        "Request handling latency.",
		ConstLabels: labels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"method"})
	reg.MustRegister(duration)

	return &Metrics{registry: reg, requests: requests, duration: duration}
}

// Middleware returns a fiber middleware recording request counts and
// latencies into the registry.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		method := c.Method()
		m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler returns the exposition endpoint. promhttp speaks net/http, so the
// handler is bridged onto the engine via the fasthttp adaptor.
func (m *Metrics) Handler() fiber.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	adapted := fasthttpadaptor.NewFastHTTPHandler(h)
	return func(c *fiber.Ctx) error {
		adapted(c.Context())
		return nil
	}
}
