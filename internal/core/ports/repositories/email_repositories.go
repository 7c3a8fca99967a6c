package repositories

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
)

// EmailOutboxWriter queues outbound email. Delivery is not observed synchronously.
type EmailOutboxWriter interface {
	Enqueue(ctx context.Context, msg domain.EmailMessage) error
}
