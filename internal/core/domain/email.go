package domain

import "time"

// EmailType identifies the document an outbound email carries.
type EmailType string

const (
	EmailInvoice   EmailType = "invoice"
	EmailStatement EmailType = "statement"
)

// EmailStatus is the delivery state tracked by the dispatcher.
type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// EmailMessage is a row of the outbound email queue. Delivery happens elsewhere.
type EmailMessage struct {
	EmailID        string      `json:"emailID"`
	Type           EmailType   `json:"type"`
	ToEmail        string      `json:"toEmail"`
	Subject        string      `json:"subject"`
	Body           string      `json:"body"`
	AttachmentPath *string     `json:"attachmentPath,omitempty"`
	Status         EmailStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
}
