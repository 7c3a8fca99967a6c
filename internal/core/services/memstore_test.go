package services_test

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/securitypro/oms_backend/internal/apperrors"
	"github.com/securitypro/oms_backend/internal/core/domain"
	portsrepo "github.com/securitypro/oms_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memState is the whole ledger held in memory.
type memState struct {
	clients      map[string]domain.Client
	guards       map[string]domain.Guard
	assets       map[string]domain.Asset
	issuances    map[string]domain.AssetIssuance
	months       map[string]domain.PayrollMonth
	items        map[string]domain.PayrollItem
	adjustments  map[string]domain.PayrollAdjustment
	sequences    map[int]int64
	invoices     map[string]domain.Invoice
	invoiceItems map[string][]domain.InvoiceItem
	payments     map[string]domain.Payment
	allocations  []domain.PaymentAllocation
	outbox       []domain.EmailMessage

	invoiceWrites int
}

func (s memState) clone() memState {
	return memState{
		clients:      maps.Clone(s.clients),
		guards:       maps.Clone(s.guards),
		assets:       maps.Clone(s.assets),
		issuances:    maps.Clone(s.issuances),
		months:       maps.Clone(s.months),
		items:        maps.Clone(s.items),
		adjustments:  maps.Clone(s.adjustments),
		sequences:    maps.Clone(s.sequences),
		invoices:     maps.Clone(s.invoices),
		invoiceItems: maps.Clone(s.invoiceItems),
		payments:     maps.Clone(s.payments),
		allocations:  slices.Clone(s.allocations),
		outbox:       slices.Clone(s.outbox),

		invoiceWrites: s.invoiceWrites,
	}
}

// memStore is a LedgerStore whose transactions work on a copy of the state
// and replace it only when fn succeeds.
type memStore struct {
	mu    sync.Mutex
	state memState
}

var _ portsrepo.LedgerStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{state: memState{
		clients:      map[string]domain.Client{},
		guards:       map[string]domain.Guard{},
		assets:       map[string]domain.Asset{},
		issuances:    map[string]domain.AssetIssuance{},
		months:       map[string]domain.PayrollMonth{},
		items:        map[string]domain.PayrollItem{},
		adjustments:  map[string]domain.PayrollAdjustment{},
		sequences:    map[int]int64{},
		invoices:     map[string]domain.Invoice{},
		invoiceItems: map[string][]domain.InvoiceItem{},
		payments:     map[string]domain.Payment{},
	}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{state: m.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

// snapshot returns a copy of the committed state.
func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memStore) addClient(c domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.clients[c.ClientID] = c
}

func (m *memStore) addGuard(g domain.Guard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.guards[g.GuardID] = g
}

func (m *memStore) addAsset(a domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.assets[a.AssetID] = a
}

// memTx implements every repository port on one transaction-local state.
type memTx struct {
	state memState
}

var (
	_ portsrepo.LedgerTx                = (*memTx)(nil)
	_ portsrepo.ClientReader            = (*memTx)(nil)
	_ portsrepo.GuardReader             = (*memTx)(nil)
	_ portsrepo.AssetRepositoryFacade   = (*memTx)(nil)
	_ portsrepo.PayrollRepositoryFacade = (*memTx)(nil)
	_ portsrepo.InvoiceRepositoryFacade = (*memTx)(nil)
	_ portsrepo.PaymentRepositoryFacade = (*memTx)(nil)
	_ portsrepo.EmailOutboxWriter       = (*memTx)(nil)
)

func (t *memTx) Clients() portsrepo.ClientReader { return t }
func (t *memTx) Guards() portsrepo.GuardReader { return t }
func (t *memTx) Assets() portsrepo.AssetRepositoryFacade { return t }
func (t *memTx) Payroll() portsrepo.PayrollRepositoryFacade { return t }
func (t *memTx) Invoices() portsrepo.InvoiceRepositoryFacade { return t }
func (t *memTx) Payments() portsrepo.PaymentRepositoryFacade { return t }
func (t *memTx) Outbox() portsrepo.EmailOutboxWriter { return t }

func notFound(what, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", what, id))
}

// --- parties ---

func (t *memTx) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	c, ok := t.state.clients[clientID]
	if !ok {
		return nil, notFound("client", clientID)
	}
	return &c, nil
}

func (t *memTx) FindGuardByID(_ context.Context, guardID string) (*domain.Guard, error) {
	g, ok := t.state.guards[guardID]
	if !ok {
		return nil, notFound("guard", guardID)
	}
	return &g, nil
}

func (t *memTx) ListGuardsByStatus(_ context.Context, status domain.GuardStatus) ([]domain.Guard, error) {
	var out []domain.Guard
	for _, g := range t.state.guards {
		if g.Status == status {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b domain.Guard) int { return cmp.Compare(a.GuardNo, b.GuardNo) })
	return out, nil
}

// --- assets ---

func (t *memTx) FindAssetByID(_ context.Context, assetID string) (*domain.Asset, error) {
	a, ok := t.state.assets[assetID]
	if !ok {
		return nil, notFound("asset", assetID)
	}
	return &a, nil
}

func (t *memTx) LockAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	return t.FindAssetByID(ctx, assetID)
}

func (t *memTx) FindIssuanceByID(_ context.Context, issuanceID string) (*domain.AssetIssuance, error) {
	i, ok := t.state.issuances[issuanceID]
	if !ok {
		return nil, notFound("issuance", issuanceID)
	}
	return &i, nil
}

func (t *memTx) LockIssuanceByID(ctx context.Context, issuanceID string) (*domain.AssetIssuance, error) {
	return t.FindIssuanceByID(ctx, issuanceID)
}

func (t *memTx) CountOpenIssuances(_ context.Context, assetID string) (int, error) {
	n := 0
	for _, i := range t.state.issuances {
		if i.AssetID == assetID && i.Status.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) ListIssuancesByAsset(_ context.Context, assetID string) ([]domain.AssetIssuance, error) {
	var out []domain.AssetIssuance
	for _, i := range t.state.issuances {
		if i.AssetID == assetID {
			out = append(out, i)
		}
	}
	slices.SortFunc(out, func(a, b domain.AssetIssuance) int { return b.IssuedAt.Compare(a.IssuedAt) })
	return out, nil
}

func (t *memTx) SaveIssuance(_ context.Context, issuance domain.AssetIssuance) error {
	if issuance.Status.IsOpen() {
		for _, i := range t.state.issuances {
			if i.AssetID == issuance.AssetID && i.Status.IsOpen() {
				return fmt.Errorf("%w: asset %s already has an open issuance", apperrors.ErrDuplicate, issuance.AssetID)
			}
		}
	}
	t.state.issuances[issuance.IssuanceID] = issuance
	return nil
}

func (t *memTx) UpdateIssuance(_ context.Context, issuance domain.AssetIssuance) error {
	if _, ok := t.state.issuances[issuance.IssuanceID]; !ok {
		return notFound("issuance", issuance.IssuanceID)
	}
	t.state.issuances[issuance.IssuanceID] = issuance
	return nil
}

func (t *memTx) UpdateAssetStatus(_ context.Context, assetID string, status domain.AssetStatus, at time.Time) error {
	a, ok := t.state.assets[assetID]
	if !ok {
		return notFound("asset", assetID)
	}
	a.Status = status
	a.LastUpdatedAt = at
	t.state.assets[assetID] = a
	return nil
}

// --- payroll ---

func (t *memTx) FindMonthByID(_ context.Context, monthID string) (*domain.PayrollMonth, error) {
	m, ok := t.state.months[monthID]
	if !ok {
		return nil, notFound("payroll month", monthID)
	}
	return &m, nil
}

func (t *memTx) LockMonthByID(ctx context.Context, monthID string) (*domain.PayrollMonth, error) {
	return t.FindMonthByID(ctx, monthID)
}

func (t *memTx) ListMonths(_ context.Context) ([]domain.PayrollMonth, error) {
	out := slices.Collect(maps.Values(t.state.months))
	slices.SortFunc(out, func(a, b domain.PayrollMonth) int { return b.Month.Compare(a.Month) })
	return out, nil
}

func (t *memTx) SaveMonth(_ context.Context, month domain.PayrollMonth) error {
	for _, m := range t.state.months {
		if m.Month.Equal(month.Month) {
			return fmt.Errorf("%w: payroll month %s", apperrors.ErrDuplicate, month.Month.Format("2006-01"))
		}
	}
	t.state.months[month.PayrollMonthID] = month
	return nil
}

func (t *memTx) UpdateMonthStatus(_ context.Context, month domain.PayrollMonth) error {
	if _, ok := t.state.months[month.PayrollMonthID]; !ok {
		return notFound("payroll month", month.PayrollMonthID)
	}
	t.state.months[month.PayrollMonthID] = month
	return nil
}

func (t *memTx) FindItemByID(_ context.Context, itemID string) (*domain.PayrollItem, error) {
	it, ok := t.state.items[itemID]
	if !ok {
		return nil, notFound("payroll item", itemID)
	}
	return &it, nil
}

func (t *memTx) ListItemsByMonth(_ context.Context, monthID string) ([]domain.PayrollItem, error) {
	var out []domain.PayrollItem
	for _, it := range t.state.items {
		if it.PayrollMonthID == monthID {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b domain.PayrollItem) int {
		return cmp.Compare(t.state.guards[a.GuardID].GuardNo, t.state.guards[b.GuardID].GuardNo)
	})
	return out, nil
}

func (t *memTx) SaveItems(_ context.Context, items []domain.PayrollItem) (int, error) {
	inserted := 0
	for _, it := range items {
		exists := false
		for _, cur := range t.state.items {
			if cur.PayrollMonthID == it.PayrollMonthID && cur.GuardID == it.GuardID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		t.state.items[it.PayrollItemID] = it
		inserted++
	}
	return inserted, nil
}

func (t *memTx) UpdateItemTotals(_ context.Context, items []domain.PayrollItem) error {
	for _, it := range items {
		if _, ok := t.state.items[it.PayrollItemID]; !ok {
			return notFound("payroll item", it.PayrollItemID)
		}
		t.state.items[it.PayrollItemID] = it
	}
	return nil
}

func (t *memTx) FindAdjustmentByID(_ context.Context, adjustmentID string) (*domain.PayrollAdjustment, error) {
	a, ok := t.state.adjustments[adjustmentID]
	if !ok {
		return nil, notFound("payroll adjustment", adjustmentID)
	}
	return &a, nil
}

func (t *memTx) ListAdjustmentsByItem(_ context.Context, itemID string) ([]domain.PayrollAdjustment, error) {
	var out []domain.PayrollAdjustment
	for _, a := range t.state.adjustments {
		if a.PayrollItemID == itemID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.PayrollAdjustment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (t *memTx) ListAdjustmentsByMonth(_ context.Context, monthID string) (map[string][]domain.PayrollAdjustment, error) {
	out := map[string][]domain.PayrollAdjustment{}
	for _, a := range t.state.adjustments {
		if t.state.items[a.PayrollItemID].PayrollMonthID == monthID {
			out[a.PayrollItemID] = append(out[a.PayrollItemID], a)
		}
	}
	return out, nil
}

func (t *memTx) SaveAdjustment(_ context.Context, adj domain.PayrollAdjustment) error {
	if _, ok := t.state.items[adj.PayrollItemID]; !ok {
		return fmt.Errorf("%w: payroll item %s does not exist", apperrors.ErrValidation, adj.PayrollItemID)
	}
	t.state.adjustments[adj.AdjustmentID] = adj
	return nil
}

func (t *memTx) DeleteAdjustment(_ context.Context, adjustmentID string) error {
	if _, ok := t.state.adjustments[adjustmentID]; !ok {
		return notFound("payroll adjustment", adjustmentID)
	}
	delete(t.state.adjustments, adjustmentID)
	return nil
}

// --- invoices ---

func (t *memTx) NextInvoiceSequence(_ context.Context, year int) (int64, error) {
	t.state.sequences[year]++
	return t.state.sequences[year], nil
}

func (t *memTx) SaveInvoice(_ context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error {
	for _, inv := range t.state.invoices {
		if inv.InvoiceNo == invoice.InvoiceNo {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceNo)
		}
	}
	t.state.invoices[invoice.InvoiceID] = invoice
	t.state.invoiceItems[invoice.InvoiceID] = slices.Clone(items)
	return nil
}

func (t *memTx) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, ok := t.state.invoices[invoiceID]
	if !ok {
		return nil, notFound("invoice", invoiceID)
	}
	return &inv, nil
}

func (t *memTx) LockInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return t.FindInvoiceByID(ctx, invoiceID)
}

func (t *memTx) LockInvoicesByIDs(_ context.Context, invoiceIDs []string) (map[string]domain.Invoice, error) {
	out := make(map[string]domain.Invoice, len(invoiceIDs))
	for _, id := range invoiceIDs {
		inv, ok := t.state.invoices[id]
		if !ok {
			return nil, notFound("invoice", id)
		}
		out[id] = inv
	}
	return out, nil
}

func (t *memTx) FindItemsByInvoiceID(_ context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	return slices.Clone(t.state.invoiceItems[invoiceID]), nil
}

func (t *memTx) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	if _, ok := t.state.invoices[invoice.InvoiceID]; !ok {
		return notFound("invoice", invoice.InvoiceID)
	}
	t.state.invoices[invoice.InvoiceID] = invoice
	t.state.invoiceWrites++
	return nil
}

func (t *memTx) ListInvoices(_ context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, *string, error) {
	var out []domain.Invoice
	for _, inv := range t.state.invoices {
		switch {
		case filter.ClientID != nil && inv.ClientID != *filter.ClientID:
			continue
		case filter.Status != nil && inv.Status != *filter.Status:
			continue
		case filter.IssuedFrom != nil && inv.IssueDate.Before(*filter.IssuedFrom):
			continue
		case filter.IssuedTo != nil && inv.IssueDate.After(*filter.IssuedTo):
			continue
		}
		out = append(out, inv)
	}
	slices.SortFunc(out, func(a, b domain.Invoice) int {
		if c := b.IssueDate.Compare(a.IssueDate); c != 0 {
			return c
		}
		return cmp.Compare(b.InvoiceNo, a.InvoiceNo)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		next := out[filter.Limit-1].InvoiceID
		return out[:filter.Limit], &next, nil
	}
	return out, nil, nil
}

// --- payments ---

func (t *memTx) SavePayment(_ context.Context, payment domain.Payment) error {
	t.state.payments[payment.PaymentID] = payment
	return nil
}

func (t *memTx) FindPaymentByID(_ context.Context, paymentID string) (*domain.Payment, error) {
	p, ok := t.state.payments[paymentID]
	if !ok {
		return nil, notFound("payment", paymentID)
	}
	return &p, nil
}

func (t *memTx) LockPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return t.FindPaymentByID(ctx, paymentID)
}

func (t *memTx) UpdatePayment(_ context.Context, payment domain.Payment) error {
	if _, ok := t.state.payments[payment.PaymentID]; !ok {
		return notFound("payment", payment.PaymentID)
	}
	t.state.payments[payment.PaymentID] = payment
	return nil
}

func (t *memTx) ListPayments(_ context.Context, filter portsrepo.PaymentFilter) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range t.state.payments {
		switch {
		case filter.ClientID != nil && p.ClientID != *filter.ClientID:
			continue
		case filter.PaidFrom != nil && p.PaymentDate.Before(*filter.PaidFrom):
			continue
		case filter.PaidTo != nil && p.PaymentDate.After(*filter.PaidTo):
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Payment) int {
		if c := a.PaymentDate.Compare(b.PaymentDate); c != 0 {
			return c
		}
		return cmp.Compare(a.PaymentID, b.PaymentID)
	})
	return out, nil
}

func (t *memTx) SaveAllocations(_ context.Context, allocations []domain.PaymentAllocation) error {
	for _, a := range allocations {
		for _, cur := range t.state.allocations {
			if cur.PaymentID == a.PaymentID && cur.InvoiceID == a.InvoiceID {
				return fmt.Errorf("%w: allocation of payment %s to invoice %s", apperrors.ErrDuplicate, a.PaymentID, a.InvoiceID)
			}
		}
		t.state.allocations = append(t.state.allocations, a)
	}
	return nil
}

func (t *memTx) ListAllocationsByPayment(_ context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	var out []domain.PaymentAllocation
	for _, a := range t.state.allocations {
		if a.PaymentID == paymentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (t *memTx) SumAllocationsByInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range t.state.allocations {
		if a.InvoiceID == invoiceID {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

// --- outbox ---

func (t *memTx) Enqueue(_ context.Context, msg domain.EmailMessage) error {
	t.state.outbox = append(t.state.outbox, msg)
	return nil
}
