package service_test

// stubs_test.go
// In-memory repository stubs shared by the service tests. Each stub mimics
// the conditional guards of its real counterpart, so the engine's failure
// and compensation paths can be exercised without a database.

import (
	"context"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── ItemRepository stub ──────────────────────────────────────────────────────

type stubItemRepo struct {
	items map[uuid.UUID]*model.InventoryItem

	// reduceErr forces the next ReduceStock on an item to fail, standing in
	// for a concurrent sale draining it between pre-flight and decrement.
	reduceErr map[uuid.UUID]error
	// restoreOrder records the item order of RestoreStock calls.
	restoreOrder []uuid.UUID
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		items:     make(map[uuid.UUID]*model.InventoryItem),
		reduceErr: make(map[uuid.UUID]error),
	}
}

func (r *stubItemRepo) Create(_ context.Context, it *model.InventoryItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = time.Now()
	r.items[it.ID] = it
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, apierror.ErrItemNotFound
	}
	cloned := *it
	return &cloned, nil
}

func (r *stubItemRepo) FindForShop(_ context.Context, shopID, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok || it.ShopID != shopID {
		return nil, apierror.ErrItemNotFound
	}
	cloned := *it
	return &cloned, nil
}

func (r *stubItemRepo) List(_ context.Context, shopID uuid.UUID, _ dto.ItemFilter) ([]model.InventoryItem, int64, error) {
	out := r.activeFor(shopID)
	return out, int64(len(out)), nil
}

func (r *stubItemRepo) Update(_ context.Context, it *model.InventoryItem) error {
	cloned := *it
	r.items[it.ID] = &cloned
	return nil
}

func (r *stubItemRepo) SoftDelete(_ context.Context, shopID, id uuid.UUID) error {
	it, ok := r.items[id]
	if !ok || it.ShopID != shopID {
		return apierror.ErrItemNotFound
	}
	it.Active = false
	return nil
}

func (r *stubItemRepo) ListBelowReorder(_ context.Context, shopID uuid.UUID) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.activeFor(shopID) {
		if it.AvailableQty <= it.ReorderLevel {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubItemRepo) ListForShop(_ context.Context, shopID uuid.UUID) ([]model.InventoryItem, error) {
	return r.activeFor(shopID), nil
}

func (r *stubItemRepo) ReduceStock(_ context.Context, id uuid.UUID, qty int) (int, error) {
	if err := r.reduceErr[id]; err != nil {
		return 0, err
	}
	it, ok := r.items[id]
	if !ok || !it.Active {
		return 0, apierror.ErrItemNotFound
	}
	if it.AvailableQty < qty {
		return 0, apierror.ErrInsufficientStock
	}
	it.AvailableQty -= qty
	it.SoldQty += qty
	return it.AvailableQty, nil
}

func (r *stubItemRepo) RestoreStock(_ context.Context, id uuid.UUID, qty int, customerReturn bool) (int, error) {
	it, ok := r.items[id]
	if !ok {
		return 0, apierror.ErrItemNotFound
	}
	if it.SoldQty < qty {
		return 0, apierror.E(apierror.KindConflict, "restore does not match a recorded sale")
	}
	it.AvailableQty += qty
	it.SoldQty -= qty
	if customerReturn {
		it.ReturnedQty += qty
	}
	r.restoreOrder = append(r.restoreOrder, id)
	return it.AvailableQty, nil
}

func (r *stubItemRepo) AddStock(_ context.Context, id uuid.UUID, qty int) (int, error) {
	it, ok := r.items[id]
	if !ok || !it.Active {
		return 0, apierror.ErrItemNotFound
	}
	it.AvailableQty += qty
	it.RestockedQty += qty
	return it.AvailableQty, nil
}

func (r *stubItemRepo) RemoveDamaged(_ context.Context, id uuid.UUID, qty int) (int, error) {
	it, ok := r.items[id]
	if !ok || !it.Active {
		return 0, apierror.ErrItemNotFound
	}
	if it.AvailableQty < qty {
		return 0, apierror.ErrInsufficientStock
	}
	it.AvailableQty -= qty
	it.DamagedQty += qty
	return it.AvailableQty, nil
}

func (r *stubItemRepo) UpdatePrices(_ context.Context, id uuid.UUID, cost, sell decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok || !it.Active {
		return apierror.ErrItemNotFound
	}
	it.CostPrice = cost
	it.SellingPrice = sell
	return nil
}

func (r *stubItemRepo) activeFor(shopID uuid.UUID) []model.InventoryItem {
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.ShopID == shopID && it.Active {
			out = append(out, *it)
		}
	}
	return out
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// ── SaleRepository stub ──────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.SaleRecord
	nextNumber int
	createErr  error
	appendErr  error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.SaleRecord), nextNumber: 1000}
}

func cloneSale(s *model.SaleRecord) *model.SaleRecord {
	cloned := *s
	cloned.Lines = append([]model.SaleLine(nil), s.Lines...)
	cloned.Payments = append([]model.CreditPayment(nil), s.Payments...)
	return &cloned
}

func (r *stubSaleRepo) Create(_ context.Context, s *model.SaleRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Lines {
		if s.Lines[i].ID == uuid.Nil {
			s.Lines[i].ID = uuid.New()
		}
		s.Lines[i].SaleID = s.ID
	}
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SaleRecord, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, apierror.ErrSaleNotFound
	}
	return cloneSale(s), nil
}

func (r *stubSaleRepo) FindForShop(_ context.Context, shopID, id uuid.UUID) (*model.SaleRecord, error) {
	s, ok := r.sales[id]
	if !ok || s.ShopID != shopID {
		return nil, apierror.ErrSaleNotFound
	}
	return cloneSale(s), nil
}

func (r *stubSaleRepo) FindByNumber(_ context.Context, number int) (*model.SaleRecord, error) {
	for _, s := range r.sales {
		if s.SaleNumber == number {
			return cloneSale(s), nil
		}
	}
	return nil, apierror.ErrSaleNotFound
}

func (r *stubSaleRepo) NextSaleNumber(_ context.Context) (int, error) {
	r.nextNumber++
	return r.nextNumber, nil
}

func (r *stubSaleRepo) List(_ context.Context, shopID uuid.UUID, _ dto.SaleFilter) ([]model.SaleRecord, int64, error) {
	var out []model.SaleRecord
	for _, s := range r.sales {
		if s.ShopID == shopID {
			out = append(out, *cloneSale(s))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ClaimRefund(_ context.Context, id, by uuid.UUID, reason string, at time.Time) error {
	s, ok := r.sales[id]
	if !ok || s.Refunded {
		return apierror.ErrAlreadyRefunded
	}
	s.Refunded = true
	s.RefundReason = &reason
	s.RefundedBy = &by
	s.RefundedAt = &at
	return nil
}

func (r *stubSaleRepo) AppendPayment(_ context.Context, saleID uuid.UUID, p *model.CreditPayment) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	s, ok := r.sales[saleID]
	if !ok || !s.IsCredit || s.Refunded || s.CreditStatus == model.CreditPaid || s.AmountOwed.LessThan(p.Amount) {
		return apierror.ErrStaleLedger
	}
	s.AmountPaid = s.AmountPaid.Add(p.Amount)
	s.AmountOwed = s.AmountOwed.Sub(p.Amount)
	s.CreditStatus = model.StatusForBalance(s.AmountOwed)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.Payments = append(s.Payments, *p)
	return nil
}

func (r *stubSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) ListOverdue(_ context.Context, shopID uuid.UUID, asOf time.Time) ([]model.SaleRecord, error) {
	var out []model.SaleRecord
	for _, s := range r.sales {
		if s.ShopID == shopID && s.IsCredit && !s.Refunded && s.AmountOwed.IsPositive() &&
			s.DueDate != nil && s.DueDate.Before(asOf) {
			out = append(out, *cloneSale(s))
		}
	}
	return out, nil
}

func (r *stubSaleRepo) CustomerHistory(_ context.Context, shopID uuid.UUID, phone string) ([]model.SaleRecord, error) {
	var out []model.SaleRecord
	for _, s := range r.sales {
		if s.ShopID == shopID && s.IsCredit && s.CustomerPhone == phone {
			out = append(out, *cloneSale(s))
		}
	}
	return out, nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── IntentRepository stub ────────────────────────────────────────────────────

type stubIntentRepo struct {
	intents map[uuid.UUID]*model.SaleIntent
}

func newStubIntentRepo() *stubIntentRepo {
	return &stubIntentRepo{intents: make(map[uuid.UUID]*model.SaleIntent)}
}

func (r *stubIntentRepo) Create(_ context.Context, in *model.SaleIntent) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	for i := range in.Steps {
		if in.Steps[i].ID == uuid.Nil {
			in.Steps[i].ID = uuid.New()
		}
		in.Steps[i].IntentID = in.ID
	}
	r.intents[in.ID] = in
	return nil
}

func (r *stubIntentRepo) findStep(stepID uuid.UUID) *model.IntentStep {
	for _, in := range r.intents {
		for i := range in.Steps {
			if in.Steps[i].ID == stepID {
				return &in.Steps[i]
			}
		}
	}
	return nil
}

func (r *stubIntentRepo) MarkStepApplied(_ context.Context, stepID uuid.UUID) error {
	if st := r.findStep(stepID); st != nil {
		st.Applied = true
	}
	return nil
}

func (r *stubIntentRepo) MarkStepReverted(_ context.Context, stepID uuid.UUID) error {
	if st := r.findStep(stepID); st != nil {
		st.Applied = false
	}
	return nil
}

func (r *stubIntentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.intents, id)
	return nil
}

func (r *stubIntentRepo) ListStale(_ context.Context, olderThan time.Time, limit int) ([]model.SaleIntent, error) {
	var out []model.SaleIntent
	for _, in := range r.intents {
		if in.CreatedAt.Before(olderThan) {
			out = append(out, *in)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ repository.IntentRepository = (*stubIntentRepo)(nil)

// ── DirectoryRepository stub ─────────────────────────────────────────────────

type stubDirectoryRepo struct {
	shops map[uuid.UUID]*model.Shop
	staff map[uuid.UUID]*model.Staff
}

func newStubDirectoryRepo() *stubDirectoryRepo {
	return &stubDirectoryRepo{
		shops: make(map[uuid.UUID]*model.Shop),
		staff: make(map[uuid.UUID]*model.Staff),
	}
}

func (r *stubDirectoryRepo) FindStaffByID(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	st, ok := r.staff[id]
	if !ok || !st.Active {
		return nil, apierror.ErrStaffNotFound
	}
	return st, nil
}

func (r *stubDirectoryRepo) ShopExistsAndVerified(_ context.Context, shopID uuid.UUID) (bool, error) {
	sh, ok := r.shops[shopID]
	return ok && sh.Verified, nil
}

func (r *stubDirectoryRepo) FindShopByID(_ context.Context, shopID uuid.UUID) (*model.Shop, error) {
	sh, ok := r.shops[shopID]
	if !ok {
		return nil, apierror.ErrShopNotVerified
	}
	return sh, nil
}

func (r *stubDirectoryRepo) FindOwner(_ context.Context, shopID uuid.UUID) (*model.Staff, error) {
	for _, st := range r.staff {
		if st.ShopID == shopID && st.Role == model.RoleOwner && st.Active {
			return st, nil
		}
	}
	return nil, apierror.ErrStaffNotFound
}

func (r *stubDirectoryRepo) ListVerifiedShops(_ context.Context) ([]model.Shop, error) {
	var out []model.Shop
	for _, sh := range r.shops {
		if sh.Verified {
			out = append(out, *sh)
		}
	}
	return out, nil
}

var _ repository.DirectoryRepository = (*stubDirectoryRepo)(nil)

// ── StockMovementRepository stub ─────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) byKind(kind string) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── PriceHistoryRepository stub ──────────────────────────────────────────────

type stubPriceHistoryRepo struct {
	entries []model.PriceHistory
}

func (r *stubPriceHistoryRepo) Create(_ context.Context, h *model.PriceHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.entries = append(r.entries, *h)
	return nil
}

func (r *stubPriceHistoryRepo) ListByItem(_ context.Context, itemID uuid.UUID, _ int) ([]model.PriceHistory, error) {
	var out []model.PriceHistory
	for _, e := range r.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.PriceHistoryRepository = (*stubPriceHistoryRepo)(nil)

// ── Hook recorder ────────────────────────────────────────────────────────────

// hookRecorder captures the async hooks the services fire, in call order.
type hookRecorder struct {
	lowStock   []string
	outOfStock []string
	completed  []int
	overdue    []string
	actions    []string
	receipts   []uuid.UUID
}

func (h *hookRecorder) OnLowStock(_ context.Context, _, _ uuid.UUID, itemName string, _, _ int) error {
	h.lowStock = append(h.lowStock, itemName)
	return nil
}

func (h *hookRecorder) OnOutOfStock(_ context.Context, _, _ uuid.UUID, itemName string) error {
	h.outOfStock = append(h.outOfStock, itemName)
	return nil
}

func (h *hookRecorder) OnSaleCompleted(_ context.Context, _, _ uuid.UUID, saleNumber int, _ decimal.Decimal) error {
	h.completed = append(h.completed, saleNumber)
	return nil
}

func (h *hookRecorder) OnCreditOverdue(_ context.Context, _, _ uuid.UUID, customerName string, _ decimal.Decimal, _ int) error {
	h.overdue = append(h.overdue, customerName)
	return nil
}

func (h *hookRecorder) LogEvent(_ context.Context, action string, _ uuid.UUID, _, _ *uuid.UUID, _ string) error {
	h.actions = append(h.actions, action)
	return nil
}

func (h *hookRecorder) EnqueueReceipt(_ context.Context, saleID uuid.UUID, _ *string) error {
	h.receipts = append(h.receipts, saleID)
	return nil
}

var (
	_ service.Notifier     = (*hookRecorder)(nil)
	_ service.AuditSink    = (*hookRecorder)(nil)
	_ service.ReceiptQueue = (*hookRecorder)(nil)
)

// ── Fixture ──────────────────────────────────────────────────────────────────

// saleFixture bundles the stubs behind one verified shop with a seller and
// an owner on staff.
type saleFixture struct {
	sales     *stubSaleRepo
	items     *stubItemRepo
	intents   *stubIntentRepo
	directory *stubDirectoryRepo
	movements *stubMovementRepo
	prices    *stubPriceHistoryRepo
	hooks     *hookRecorder

	shopID   uuid.UUID
	sellerID uuid.UUID
	ownerID  uuid.UUID
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		sales:     newStubSaleRepo(),
		items:     newStubItemRepo(),
		intents:   newStubIntentRepo(),
		directory: newStubDirectoryRepo(),
		movements: &stubMovementRepo{},
		prices:    &stubPriceHistoryRepo{},
		hooks:     &hookRecorder{},
		shopID:    uuid.New(),
		sellerID:  uuid.New(),
		ownerID:   uuid.New(),
	}
	f.directory.shops[f.shopID] = &model.Shop{
		ID: f.shopID, Name: "Mama Nkechi Provisions", OwnerID: f.ownerID, Verified: true,
	}
	f.directory.staff[f.sellerID] = &model.Staff{
		ID: f.sellerID, ShopID: f.shopID, Name: "Ada", Role: model.RoleSales, Active: true,
	}
	f.directory.staff[f.ownerID] = &model.Staff{
		ID: f.ownerID, ShopID: f.shopID, Name: "Nkechi", Role: model.RoleOwner, Active: true,
	}
	return f
}

func buildSaleSvc(opts service.SaleOptions) (service.SaleService, *saleFixture) {
	f := newSaleFixture()
	svc := service.NewSaleService(
		f.sales, f.items, f.intents, f.directory, f.movements,
		f.hooks, f.hooks, f.hooks, opts,
	)
	return svc, f
}

func buildCreditSvc(now func() time.Time) (service.CreditService, *saleFixture) {
	f := newSaleFixture()
	svc := service.NewCreditService(f.sales, f.directory, f.hooks, f.hooks, now)
	return svc, f
}

func buildStockSvc() (service.StockService, *saleFixture) {
	f := newSaleFixture()
	svc := service.NewStockService(f.items, f.movements, f.hooks, nil)
	return svc, f
}

func buildItemSvc() (service.ItemService, *saleFixture) {
	f := newSaleFixture()
	svc := service.NewItemService(f.items, f.prices, f.hooks)
	return svc, f
}

func (f *saleFixture) seedItem(name string, avail int, cost, sell float64, reorder int) *model.InventoryItem {
	it := &model.InventoryItem{
		ID:           uuid.New(),
		ShopID:       f.shopID,
		Name:         name,
		Category:     "provisions",
		Unit:         "unit",
		CostPrice:    decimal.NewFromFloat(cost),
		SellingPrice: decimal.NewFromFloat(sell),
		AvailableQty: avail,
		InitialQty:   avail,
		ReorderLevel: reorder,
		Active:       true,
	}
	f.items.items[it.ID] = it
	return it
}

// seedCreditSale plants an open credit sale for the ledger tests.
func (f *saleFixture) seedCreditSale(phone string, total float64, due time.Time) *model.SaleRecord {
	f.sales.nextNumber++
	amount := decimal.NewFromFloat(total)
	s := &model.SaleRecord{
		ID:            uuid.New(),
		ShopID:        f.shopID,
		SaleNumber:    f.sales.nextNumber,
		StaffID:       f.sellerID,
		Subtotal:      amount,
		TotalAmount:   amount,
		TotalProfit:   decimal.Zero,
		PaymentMethod: model.PayCredit,
		IsCredit:      true,
		CreditStatus:  model.CreditPending,
		AmountPaid:    decimal.Zero,
		AmountOwed:    amount,
		DueDate:       &due,
		CustomerName:  "Chinedu Obi",
		CustomerPhone: phone,
		CreatedAt:     time.Now(),
	}
	f.sales.sales[s.ID] = s
	return s
}
