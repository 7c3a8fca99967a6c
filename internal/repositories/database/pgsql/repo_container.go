package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewLedgerStore wires the pgx-backed ledger store. txTimeout <= 0 disables the per-transaction deadline.
func NewLedgerStore(dbPool *pgxpool.Pool, txTimeout time.Duration) *PgxLedgerStore {
	return &PgxLedgerStore{Pool: dbPool, TxTimeout: txTimeout}
}
