// Package metrics exposes Prometheus collectors for the HTTP layer and stock
// operations.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so that several apps (tests) can coexist in one
// process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	stockMovements      *prometheus.CounterVec
	stockQuantity       *prometheus.CounterVec
	stockOutRejected    prometheus.Counter
}

func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		stockMovements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_movements_total",
				Help: "Stock movements applied, by type",
			},
			[]string{"type"},
		),
		stockQuantity: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_quantity_total",
				Help: "Units moved in and out of stock",
			},
			[]string{"type"},
		),
		stockOutRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_stock_out_rejected_total",
				Help: "Stock-outs rejected for insufficient stock",
			},
		),
	}
}

// Middleware records count and duration per route. Errors are passed to the
// app's error handler first so the recorded status is the one sent.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// label values outlive the request; fiber strings do not
		method := strings.Clone(c.Method())
		path := strings.Clone(c.Route().Path)
		status := strconv.Itoa(c.Response().StatusCode())
		m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		return nil
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) StockMoved(kind models.MovementType, quantity int) {
	m.stockMovements.WithLabelValues(string(kind)).Inc()
	m.stockQuantity.WithLabelValues(string(kind)).Add(float64(quantity))
}

func (m *Metrics) StockOutRejected() { m.stockOutRejected.Inc() }

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
