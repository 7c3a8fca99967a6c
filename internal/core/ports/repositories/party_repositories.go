package repositories

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client by its unique identifier.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// GuardReader defines read operations for guard data
type GuardReader interface {
	// FindGuardByID retrieves a guard by its unique identifier.
	FindGuardByID(ctx context.Context, guardID string) (*domain.Guard, error)

	// ListGuardsByStatus returns every guard in the given status, ordered by guard number.
	ListGuardsByStatus(ctx context.Context, status domain.GuardStatus) ([]domain.Guard, error)
}
