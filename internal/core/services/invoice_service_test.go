package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/core/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func seedClient(store *memStore, id, name string) {
	store.addClient(domain.Client{
		ClientID:       id,
		Name:           name,
		BillingCycle:   domain.BillingMonthly,
		OpeningBalance: decimal.Zero,
		Status:         domain.ClientActive,
	})
}

func invoiceRequest(clientID string, issue time.Time, amounts ...int64) dto.CreateInvoiceRequest {
	req := dto.CreateInvoiceRequest{
		ClientID:  clientID,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 30),
		TaxTotal:  decimal.Zero,
	}
	for _, a := range amounts {
		req.Items = append(req.Items, dto.InvoiceItemRequest{
			Description: "Static guarding",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(a),
		})
	}
	return req
}

type InvoiceServiceTestSuite struct {
	suite.Suite
	store   *memStore
	service portssvc.InvoiceSvcFacade
	ctx     context.Context
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	seedClient(suite.store, "client-1", "Harbour Logistics")
	suite.service = services.NewInvoiceService(suite.store, services.InvoiceSettings{
		DefaultCurrency: "GHS",
		EmailBody:       "Please find your invoice attached.",
	}, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func (suite *InvoiceServiceTestSuite) create(req dto.CreateInvoiceRequest) *domain.Invoice {
	inv, _, err := suite.service.CreateInvoice(suite.ctx, req, "user-1")
	suite.Require().NoError(err)
	return inv
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_TotalsAndNumbering() {
	req := dto.CreateInvoiceRequest{
		ClientID:  "client-1",
		IssueDate: day(2024, time.March, 1),
		DueDate:   day(2024, time.March, 31),
		TaxTotal:  decimal.RequireFromString("12.50"),
		Items: []dto.InvoiceItemRequest{
			{Description: "Day shift", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("25.00")},
			{Description: "Night shift", Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.NewFromInt(40)},
		},
	}

	inv, items, err := suite.service.CreateInvoice(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "INV-2024-00001", inv.InvoiceNo)
	assert.Equal(suite.T(), domain.InvoiceDraft, inv.Status)
	assert.Equal(suite.T(), "GHS", inv.Currency)
	require.Len(suite.T(), items, 2)
	assert.True(suite.T(), items[1].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(suite.T(), inv.Subtotal.Equal(decimal.NewFromInt(350)))
	assert.True(suite.T(), inv.Total.Equal(decimal.RequireFromString("362.50")))

	second := suite.create(invoiceRequest("client-1", day(2024, time.April, 2), 10))
	assert.Equal(suite.T(), "INV-2024-00002", second.InvoiceNo)

	nextYear := suite.create(invoiceRequest("client-1", day(2025, time.January, 3), 10))
	assert.Equal(suite.T(), "INV-2025-00001", nextYear.InvoiceNo)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Validation() {
	noItems := invoiceRequest("client-1", day(2024, time.March, 1))
	dueBefore := invoiceRequest("client-1", day(2024, time.March, 1), 10)
	dueBefore.DueDate = day(2024, time.February, 28)
	zeroQty := invoiceRequest("client-1", day(2024, time.March, 1), 10)
	zeroQty.Items[0].Quantity = decimal.Zero
	negativeTax := invoiceRequest("client-1", day(2024, time.March, 1), 10)
	negativeTax.TaxTotal = decimal.NewFromInt(-1)
	subCentPrice := invoiceRequest("client-1", day(2024, time.March, 1), 10)
	subCentPrice.Items[0].UnitPrice = decimal.RequireFromString("10.005")
	subCentTax := invoiceRequest("client-1", day(2024, time.March, 1), 10)
	subCentTax.TaxTotal = decimal.RequireFromString("0.001")

	for name, req := range map[string]dto.CreateInvoiceRequest{
		"no items":            noItems,
		"due before issue":    dueBefore,
		"zero quantity":       zeroQty,
		"negative tax":        negativeTax,
		"sub-cent unit price": subCentPrice,
		"sub-cent tax total":  subCentTax,
	} {
		suite.Run(name, func() {
			_, _, err := suite.service.CreateInvoice(suite.ctx, req, "user-1")
			assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
		})
	}
	assert.Empty(suite.T(), suite.store.snapshot().invoices)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownClient() {
	_, _, err := suite.service.CreateInvoice(suite.ctx, invoiceRequest("nobody", day(2024, time.March, 1), 10), "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	// The sequence is not consumed by a rolled back create.
	assert.Empty(suite.T(), suite.store.snapshot().sequences)
}

func (suite *InvoiceServiceTestSuite) TestPatchInvoice_DraftOnly() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 1), 100))
	tax := decimal.NewFromInt(15)
	currency := " usd "

	patched, err := suite.service.PatchInvoice(suite.ctx, inv.InvoiceID, dto.PatchInvoiceRequest{TaxTotal: &tax, Currency: &currency}, "user-2")

	suite.Require().NoError(err)
	assert.True(suite.T(), patched.Total.Equal(decimal.NewFromInt(115)))
	assert.Equal(suite.T(), "USD", patched.Currency)
	assert.Equal(suite.T(), "user-2", patched.LastUpdatedBy)

	_, err = suite.service.SendInvoice(suite.ctx, inv.InvoiceID, dto.SendInvoiceRequest{ToEmail: "ap@harbour.test"}, "user-1")
	suite.Require().NoError(err)

	_, err = suite.service.PatchInvoice(suite.ctx, inv.InvoiceID, dto.PatchInvoiceRequest{TaxTotal: &tax}, "user-2")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
}

func (suite *InvoiceServiceTestSuite) TestPatchInvoice_IssueDateStaysInNumberYear() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.December, 20), 100))
	nextYear := day(2025, time.January, 3)
	sameYear := day(2024, time.December, 2)

	_, err := suite.service.PatchInvoice(suite.ctx, inv.InvoiceID, dto.PatchInvoiceRequest{IssueDate: &nextYear}, "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Equal(suite.T(), day(2024, time.December, 20), suite.store.snapshot().invoices[inv.InvoiceID].IssueDate)

	patched, err := suite.service.PatchInvoice(suite.ctx, inv.InvoiceID, dto.PatchInvoiceRequest{IssueDate: &sameYear}, "user-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), sameYear, patched.IssueDate)
	assert.Equal(suite.T(), "INV-2024-00001", patched.InvoiceNo)
}

func (suite *InvoiceServiceTestSuite) TestPatchInvoice_DueBeforeIssue() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 10), 100))
	due := day(2024, time.March, 1)

	_, err := suite.service.PatchInvoice(suite.ctx, inv.InvoiceID, dto.PatchInvoiceRequest{DueDate: &due}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	assert.Equal(suite.T(), day(2024, time.April, 9), suite.store.snapshot().invoices[inv.InvoiceID].DueDate)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_QueuesEmail() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 1), 100))

	sent, err := suite.service.SendInvoice(suite.ctx, inv.InvoiceID, dto.SendInvoiceRequest{ToEmail: "ap@harbour.test"}, "user-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceSent, sent.Status)
	suite.Require().NotNil(sent.SentAt)
	assert.Equal(suite.T(), fixedNow, *sent.SentAt)
	suite.Require().NotNil(sent.SentToEmail)
	assert.Equal(suite.T(), "ap@harbour.test", *sent.SentToEmail)

	outbox := suite.store.snapshot().outbox
	require.Len(suite.T(), outbox, 1)
	assert.Equal(suite.T(), domain.EmailInvoice, outbox[0].Type)
	assert.Equal(suite.T(), "Invoice INV-2024-00001", outbox[0].Subject)
	assert.Equal(suite.T(), "Please find your invoice attached.", outbox[0].Body)
	assert.Equal(suite.T(), domain.EmailQueued, outbox[0].Status)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_VoidRefused() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 1), 100))
	_, err := suite.service.VoidInvoice(suite.ctx, inv.InvoiceID, "user-1")
	suite.Require().NoError(err)

	_, err = suite.service.SendInvoice(suite.ctx, inv.InvoiceID, dto.SendInvoiceRequest{ToEmail: "ap@harbour.test"}, "user-1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
	assert.Empty(suite.T(), suite.store.snapshot().outbox)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_IsSticky() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 1), 100))

	voided, err := suite.service.VoidInvoice(suite.ctx, inv.InvoiceID, "user-1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceVoid, voided.Status)

	refreshed, err := suite.service.RefreshInvoiceStatus(suite.ctx, inv.InvoiceID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.InvoiceVoid, refreshed.Status)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_NotFound() {
	_, err := suite.service.VoidInvoice(suite.ctx, "missing", "user-1")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_Balance() {
	inv := suite.create(invoiceRequest("client-1", day(2024, time.March, 1), 60, 40))

	res, err := suite.service.GetInvoice(suite.ctx, inv.InvoiceID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), inv.InvoiceNo, res.InvoiceNo)
	assert.Len(suite.T(), res.Items, 2)
	assert.True(suite.T(), res.Allocated.IsZero())
	assert.True(suite.T(), res.Balance.Equal(decimal.NewFromInt(100)))
}

func (suite *InvoiceServiceTestSuite) TestListInvoices_Filters() {
	seedClient(suite.store, "client-2", "City Mall")
	suite.create(invoiceRequest("client-1", day(2024, time.January, 5), 10))
	suite.create(invoiceRequest("client-1", day(2024, time.February, 5), 10))
	suite.create(invoiceRequest("client-2", day(2024, time.February, 6), 10))

	clientID := "client-1"
	from := day(2024, time.February, 1)
	res, err := suite.service.ListInvoices(suite.ctx, dto.ListInvoicesParams{ClientID: &clientID, IssuedFrom: &from})

	suite.Require().NoError(err)
	require.Len(suite.T(), res.Invoices, 1)
	assert.Equal(suite.T(), "INV-2024-00002", res.Invoices[0].InvoiceNo)
	assert.Nil(suite.T(), res.NextToken)

	all, err := suite.service.ListInvoices(suite.ctx, dto.ListInvoicesParams{Limit: 2})
	suite.Require().NoError(err)
	assert.Len(suite.T(), all.Invoices, 2)
	assert.NotNil(suite.T(), all.NextToken)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
