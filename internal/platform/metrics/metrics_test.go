package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors_CountLedgerEvents(t *testing.T) {
	c := New()

	c.InvoiceCreated()
	c.InvoiceCreated()
	c.InvoiceStatusChanged("paid")
	c.AllocationsRecorded(3, 150)
	c.PayrollEvent("locked")
	c.AssetTransition("issued")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.invoicesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invoiceStatus.WithLabelValues("paid")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.allocationsTotal))
	assert.Equal(t, 150.0, testutil.ToFloat64(c.allocatedAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.payrollEvents.WithLabelValues("locked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.assetTransitions.WithLabelValues("issued")))
}

func TestCollectors_NilIsNoop(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.InvoiceCreated()
		c.ObserveRequest("GET", "/x", "200", time.Millisecond)
		c.AllocationsRecorded(1, 1)
	})
}

func TestCollectors_Handler(t *testing.T) {
	c := New()
	c.ObserveRequest("GET", "/api/v1/invoices", "200", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oms_http_requests_total{method="GET",route="/api/v1/invoices",status="200"} 1`)
}
