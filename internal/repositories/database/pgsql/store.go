package pgsql

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/securitypro/oms_backend/internal/apperrors"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
)

// PgxLedgerStore runs every service operation inside one pgx transaction.
type PgxLedgerStore struct {
	Pool      *pgxpool.Pool
	TxTimeout time.Duration
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// WithinTx begins a transaction, hands the bound repositories to fn and commits when fn succeeds.
func (s *PgxLedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) (err error) {
	if s.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TxTimeout)
		defer cancel()
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The request context may already be done; rollback must still reach the server.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newLedgerTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	committed = true
	return nil
}

// Ping checks database reachability for the health endpoint.
func (s *PgxLedgerStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

type pgxLedgerTx struct {
	clients  *PgxClientRepository
	guards   *PgxGuardRepository
	assets   *PgxAssetRepository
	payroll  *PgxPayrollRepository
	invoices *PgxInvoiceRepository
	payments *PgxPaymentRepository
	outbox   *PgxEmailOutboxRepository
}

func newLedgerTx(db querier) *pgxLedgerTx {
	base := BaseRepository{db: db}
	return &pgxLedgerTx{
		clients:  &PgxClientRepository{BaseRepository: base},
		guards:   &PgxGuardRepository{BaseRepository: base},
		assets:   &PgxAssetRepository{BaseRepository: base},
		payroll:  &PgxPayrollRepository{BaseRepository: base},
		invoices: &PgxInvoiceRepository{BaseRepository: base},
		payments: &PgxPaymentRepository{BaseRepository: base},
		outbox:   &PgxEmailOutboxRepository{BaseRepository: base},
	}
}

func (t *pgxLedgerTx) Clients() portsrepo.ClientReader { return t.clients }
func (t *pgxLedgerTx) Guards() portsrepo.GuardReader { return t.guards }
func (t *pgxLedgerTx) Assets() portsrepo.AssetRepositoryFacade { return t.assets }
func (t *pgxLedgerTx) Payroll() portsrepo.PayrollRepositoryFacade { return t.payroll }
func (t *pgxLedgerTx) Invoices() portsrepo.InvoiceRepositoryFacade { return t.invoices }
func (t *pgxLedgerTx) Payments() portsrepo.PaymentRepositoryFacade { return t.payments }
func (t *pgxLedgerTx) Outbox() portsrepo.EmailOutboxWriter { return t.outbox }
