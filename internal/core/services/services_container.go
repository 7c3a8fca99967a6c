package services

import (
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, store portsrepo.LedgerStore, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Asset = NewAssetService(store, options...)
	container.Payroll = NewPayrollService(store, options...)
	container.Invoice = NewInvoiceService(store, InvoiceSettings{
		DefaultCurrency: cfg.DefaultCurrency,
		EmailBody:       cfg.InvoiceEmailBody,
	}, options...)

	// The allocator refreshes invoice statuses through the invoice ledger.
	container.Payment = NewPaymentService(store, container.Invoice, options...)
	container.Reporting = NewReportingService(store, options...)

	return container
}
