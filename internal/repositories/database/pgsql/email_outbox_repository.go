package pgsql

import (
	"context"

	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
)

// PgxEmailOutboxRepository appends to the outbound email queue.
type PgxEmailOutboxRepository struct {
	BaseRepository
}

var _ portsrepo.EmailOutboxWriter = (*PgxEmailOutboxRepository)(nil)

// Enqueue stores a message for later delivery.
func (r *PgxEmailOutboxRepository) Enqueue(ctx context.Context, msg domain.EmailMessage) error {
	query := `
		INSERT INTO email_outbox (email_id, type, to_email, subject, body, attachment_path, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		msg.EmailID,
		string(msg.Type),
		msg.ToEmail,
		msg.Subject,
		msg.Body,
		msg.AttachmentPath,
		string(msg.Status),
		msg.CreatedAt,
	)
	return translateError(err, "email "+msg.EmailID)
}
