package dto

import (
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one billed line of a new invoice.
type InvoiceItemRequest struct {
	SiteID      *string         `json:"siteID"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required,money_positive,money_scale"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"gte=0,money_scale"`
}

// CreateInvoiceRequest defines the data needed to raise a draft invoice.
// Currency falls back to the configured default when omitted.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"clientID" binding:"required"`
	IssueDate time.Time            `json:"issueDate" binding:"required"`
	DueDate   time.Time            `json:"dueDate" binding:"required,gtefield=IssueDate"`
	Currency  string               `json:"currency" binding:"omitempty,len=3"`
	TaxTotal  decimal.Decimal      `json:"taxTotal" binding:"gte=0,money_scale"`
	Notes     *string              `json:"notes"`
	Items     []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PatchInvoiceRequest defines the header fields that may change on a draft invoice.
// Use pointers to distinguish between zero-value updates and fields not provided.
type PatchInvoiceRequest struct {
	IssueDate *time.Time       `json:"issueDate"`
	DueDate   *time.Time       `json:"dueDate"`
	Currency  *string          `json:"currency" binding:"omitempty,len=3"`
	TaxTotal  *decimal.Decimal `json:"taxTotal" binding:"omitempty,gte=0,money_scale"`
	Notes     *string          `json:"notes"`
}

// ToPatch converts the request into the domain patch.
func (r PatchInvoiceRequest) ToPatch() domain.InvoicePatch {
	return domain.InvoicePatch{
		IssueDate: r.IssueDate,
		DueDate:   r.DueDate,
		Currency:  r.Currency,
		TaxTotal:  r.TaxTotal,
		Notes:     r.Notes,
	}
}

// SendInvoiceRequest names the recipient of an invoice email.
type SendInvoiceRequest struct {
	ToEmail string `json:"toEmail" binding:"required,email"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	ClientID   *string               `form:"clientID"`
	Status     *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=draft sent part_paid paid void"`
	IssuedFrom *time.Time            `form:"issuedFrom" time_format:"2006-01-02" time_utc:"1"`
	IssuedTo   *time.Time            `form:"issuedTo" time_format:"2006-01-02" time_utc:"1"`
	Limit      int                   `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string               `form:"nextToken"`
}

// InvoiceItemResponse defines the data returned for an invoice line.
type InvoiceItemResponse struct {
	InvoiceItemID string          `json:"invoiceItemID"`
	SiteID        *string         `json:"siteID,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	ClientID      string                `json:"clientID"`
	InvoiceNo     string                `json:"invoiceNo"`
	IssueDate     string                `json:"issueDate"`
	DueDate       string                `json:"dueDate"`
	Currency      string                `json:"currency"`
	Status        domain.InvoiceStatus  `json:"status"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxTotal      decimal.Decimal       `json:"taxTotal"`
	Total         decimal.Decimal       `json:"total"`
	Notes         *string               `json:"notes,omitempty"`
	SentToEmail   *string               `json:"sentToEmail,omitempty"`
	SentAt        *time.Time            `json:"sentAt,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceDetailResponse adds the payment position to an invoice.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Allocated decimal.Decimal `json:"allocated"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice and its optional items.
func ToInvoiceResponse(inv *domain.Invoice, items []domain.InvoiceItem) InvoiceResponse {
	res := InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		ClientID:      inv.ClientID,
		InvoiceNo:     inv.InvoiceNo,
		IssueDate:     inv.IssueDate.Format(time.DateOnly),
		DueDate:       inv.DueDate.Format(time.DateOnly),
		Currency:      inv.Currency,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxTotal,
		Total:         inv.Total,
		Notes:         inv.Notes,
		SentToEmail:   inv.SentToEmail,
		SentAt:        inv.SentAt,
		CreatedAt:     inv.CreatedAt,
		CreatedBy:     inv.CreatedBy,
		LastUpdatedAt: inv.LastUpdatedAt,
		LastUpdatedBy: inv.LastUpdatedBy,
	}
	if len(items) > 0 {
		res.Items = make([]InvoiceItemResponse, len(items))
		for i, it := range items {
			res.Items[i] = InvoiceItemResponse{
				InvoiceItemID: it.InvoiceItemID,
				SiteID:        it.SiteID,
				Description:   it.Description,
				Quantity:      it.Quantity,
				UnitPrice:     it.UnitPrice,
				Amount:        it.Amount,
			}
		}
	}
	return res
}

// ToInvoiceResponses converts a page of invoices without their items.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i], nil)
	}
	return res
}
