package handlers_test

import (
	"context"
	"time"

	"github.com/securitypro/oms_backend/internal/core/domain"
	portssvc "github.com/securitypro/oms_backend/internal/core/ports/services"
	"github.com/securitypro/oms_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AssetService ---
type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) ListIssuances(ctx context.Context, assetID string) ([]domain.AssetIssuance, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetIssuance), args.Error(1)
}
func (m *MockAssetService) IssueAsset(ctx context.Context, assetID string, req dto.IssueAssetRequest, userID string) (*domain.AssetIssuance, error) {
	args := m.Called(ctx, assetID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetIssuance), args.Error(1)
}
func (m *MockAssetService) ReturnAsset(ctx context.Context, issuanceID string, req dto.ReturnAssetRequest, userID string) (*domain.AssetIssuance, error) {
	args := m.Called(ctx, issuanceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetIssuance), args.Error(1)
}
func (m *MockAssetService) MarkAssetLost(ctx context.Context, issuanceID string, req dto.MarkLostRequest, userID string) (*domain.AssetIssuance, error) {
	args := m.Called(ctx, issuanceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetIssuance), args.Error(1)
}

var _ portssvc.AssetSvcFacade = (*MockAssetService)(nil)

// --- Mock PayrollService ---
type MockPayrollService struct {
	mock.Mock
}

func (m *MockPayrollService) GetMonth(ctx context.Context, monthID string) (*domain.PayrollMonth, error) {
	args := m.Called(ctx, monthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollMonth), args.Error(1)
}
func (m *MockPayrollService) ListMonths(ctx context.Context) ([]domain.PayrollMonth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollMonth), args.Error(1)
}
func (m *MockPayrollService) ListItems(ctx context.Context, monthID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, monthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}
func (m *MockPayrollService) CreateMonth(ctx context.Context, req dto.CreatePayrollMonthRequest, userID string) (*domain.PayrollMonth, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollMonth), args.Error(1)
}
func (m *MockPayrollService) GenerateItems(ctx context.Context, monthID string, userID string) (int, error) {
	args := m.Called(ctx, monthID, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockPayrollService) AddAdjustment(ctx context.Context, itemID string, req dto.CreateAdjustmentRequest, userID string) (*domain.PayrollAdjustment, error) {
	args := m.Called(ctx, itemID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollAdjustment), args.Error(1)
}
func (m *MockPayrollService) DeleteAdjustment(ctx context.Context, adjustmentID string, userID string) error {
	args := m.Called(ctx, adjustmentID, userID)
	return args.Error(0)
}
func (m *MockPayrollService) Recompute(ctx context.Context, monthID string, userID string) ([]domain.PayrollItem, error) {
	args := m.Called(ctx, monthID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollItem), args.Error(1)
}
func (m *MockPayrollService) LockMonth(ctx context.Context, monthID string, userID string) (*domain.PayrollMonth, error) {
	args := m.Called(ctx, monthID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollMonth), args.Error(1)
}

var _ portssvc.PayrollSvcFacade = (*MockPayrollService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceDetailResponse, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvoiceDetailResponse), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, []domain.InvoiceItem, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).([]domain.InvoiceItem), args.Error(2)
}
func (m *MockInvoiceService) PatchInvoice(ctx context.Context, invoiceID string, req dto.PatchInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) SendInvoice(ctx context.Context, invoiceID string, req dto.SendInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) RefreshInvoiceStatus(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID string) (*dto.PaymentResponse, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentResponse), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, clientID *string) ([]domain.Payment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).([]domain.PaymentAllocation), args.Error(2)
}
func (m *MockPaymentService) PatchPayment(ctx context.Context, paymentID string, req dto.PatchPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) ClientStatement(ctx context.Context, clientID string, from, to time.Time) (*domain.ClientStatement, error) {
	args := m.Called(ctx, clientID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientStatement), args.Error(1)
}
func (m *MockReportingService) SendStatement(ctx context.Context, clientID string, req dto.SendStatementRequest, userID string) (*domain.EmailMessage, error) {
	args := m.Called(ctx, clientID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailMessage), args.Error(1)
}
func (m *MockReportingService) PayrollExport(ctx context.Context, monthID string) (*domain.PayrollMonth, []domain.PayrollItem, error) {
	args := m.Called(ctx, monthID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PayrollMonth), args.Get(1).([]domain.PayrollItem), args.Error(2)
}
func (m *MockReportingService) InvoiceDocument(ctx context.Context, invoiceID string) (string, error) {
	args := m.Called(ctx, invoiceID)
	return args.String(0), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)
