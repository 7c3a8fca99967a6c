package repositories

import "context"

// LedgerStore scopes repository access to a single storage transaction.
type LedgerStore interface {
	// WithinTx runs fn inside one transaction. The transaction commits when fn returns nil
	// and rolls back on any error, panic, timeout or lost connection.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx exposes the repositories bound to the running transaction.
type LedgerTx interface {
	Clients() ClientReader
	Guards() GuardReader
	Assets() AssetRepositoryFacade
	Payroll() PayrollRepositoryFacade
	Invoices() InvoiceRepositoryFacade
	Payments() PaymentRepositoryFacade
	Outbox() EmailOutboxWriter
}
