package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oms"

// Collectors owns a private registry with the HTTP and ledger metrics.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	invoicesCreated  prometheus.Counter
	invoiceStatus    *prometheus.CounterVec
	allocationsTotal prometheus.Counter
	allocatedAmount  prometheus.Counter
	payrollEvents    *prometheus.CounterVec
	assetTransitions *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go runtime collectors.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "invoices_created_total",
			Help:      "Invoices created.",
		}),
		invoiceStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "invoice_status_changes_total",
			Help:      "Invoice status transitions, by target status.",
		}, []string{"status"}),
		allocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "payment_allocations_total",
			Help:      "Payment allocation rows written.",
		}),
		allocatedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "payment_allocated_amount_total",
			Help:      "Sum of allocated payment amounts, in minor-unit agnostic currency.",
		}),
		payrollEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "events_total",
			Help:      "Payroll workflow events, by kind.",
		}, []string{"event"}),
		assetTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "transitions_total",
			Help:      "Asset issuance transitions, by kind.",
		}, []string{"transition"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestsTotal,
		c.requestDuration,
		c.invoicesCreated,
		c.invoiceStatus,
		c.allocationsTotal,
		c.allocatedAmount,
		c.payrollEvents,
		c.assetTransitions,
	)
	return c
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collectors) ObserveRequest(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, route, status).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collectors) InvoiceCreated() {
	if c == nil {
		return
	}
	c.invoicesCreated.Inc()
}

func (c *Collectors) InvoiceStatusChanged(status string) {
	if c == nil {
		return
	}
	c.invoiceStatus.WithLabelValues(status).Inc()
}

// AllocationsRecorded counts n allocation rows worth amount in total.
func (c *Collectors) AllocationsRecorded(n int, amount float64) {
	if c == nil {
		return
	}
	c.allocationsTotal.Add(float64(n))
	c.allocatedAmount.Add(amount)
}

func (c *Collectors) PayrollEvent(event string) {
	if c == nil {
		return
	}
	c.payrollEvents.WithLabelValues(event).Inc()
}

func (c *Collectors) AssetTransition(transition string) {
	if c == nil {
		return
	}
	c.assetTransitions.WithLabelValues(transition).Inc()
}
