package service_test

// sale_service_test.go
// Sale engine behavior: money math, the decrement/compensation sequence,
// refund and deletion semantics, and recovery of interrupted transactions.

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── CreateSale: totals and stock ─────────────────────────────────────────────

func TestCreateSale_CashTotalsAndStock(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Peak Milk 400g", 10, 60, 100, 3)

	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ItemID: it.ID.String(), Quantity: 3, DiscountPct: decimal.NewFromInt(10)},
		},
		PaymentMethod: model.PayCash,
	})

	require.NoError(t, err)
	// 3 x 100 with 10% off = 270; profit 270 - 3 x 60 = 90.
	assert.True(t, decimal.NewFromInt(270).Equal(resp.Subtotal), "subtotal, got %s", resp.Subtotal)
	assert.True(t, decimal.NewFromInt(270).Equal(resp.TotalAmount))
	assert.True(t, decimal.NewFromInt(90).Equal(resp.TotalProfit), "profit, got %s", resp.TotalProfit)
	require.Len(t, resp.Lines, 1)
	assert.True(t, decimal.NewFromInt(270).Equal(resp.Lines[0].LineTotal))
	assert.True(t, decimal.NewFromInt(90).Equal(resp.Lines[0].LineProfit))

	// Cash settles on the spot.
	assert.False(t, resp.IsCredit)
	assert.Equal(t, string(model.CreditPaid), resp.CreditStatus)
	assert.True(t, decimal.NewFromInt(270).Equal(resp.AmountPaid))
	assert.True(t, resp.AmountOwed.IsZero())

	assert.Equal(t, 7, f.items.items[it.ID].AvailableQty)
	assert.Equal(t, 3, f.items.items[it.ID].SoldQty)
	assert.Empty(t, f.intents.intents, "intent must be cleared once the sale lands")
}

func TestCreateSale_SubtotalIsSumOfLines(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	rice := f.seedItem("Bag of Rice 50kg", 10, 52000, 61000, 2)
	oil := f.seedItem("Groundnut Oil 5L", 15, 9000, 11500, 3)

	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ItemID: rice.ID.String(), Quantity: 1, DiscountPct: decimal.NewFromInt(5)},
			{ItemID: oil.ID.String(), Quantity: 2},
		},
		PaymentMethod: model.PayTransfer,
	})

	require.NoError(t, err)
	sum := decimal.Zero
	for _, l := range resp.Lines {
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, sum.Equal(resp.Subtotal))
	// 61000 less 5% = 57950, plus 2 x 11500 = 80950.
	assert.True(t, decimal.NewFromInt(80950).Equal(resp.TotalAmount), "got %s", resp.TotalAmount)
}

func TestCreateSale_FiresCompletionHooks(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Indomie carton", 20, 4800, 5600, 5)

	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 2}},
		PaymentMethod: model.PayCard,
	})

	require.NoError(t, err)
	assert.Contains(t, f.hooks.completed, resp.SaleNumber)
	assert.Contains(t, f.hooks.actions, model.AuditSaleCreated)
	require.Len(t, f.hooks.receipts, 1)
	assert.Equal(t, resp.ID, f.hooks.receipts[0].String())

	moves := f.movements.byKind(model.MovementSale)
	require.Len(t, moves, 1)
	assert.Equal(t, -2, moves[0].Quantity)
	assert.Equal(t, 20, moves[0].BeforeQty)
	assert.Equal(t, 18, moves[0].AfterQty)
}

// ── CreateSale: rejection leaves no trace ────────────────────────────────────

func TestCreateSale_InsufficientStock_NothingChanges(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Titus Sardine", 2, 900, 1200, 1)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 5}},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	assert.Equal(t, 2, f.items.items[it.ID].AvailableQty)
	assert.Zero(t, f.items.items[it.ID].SoldQty)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.intents.intents)
	assert.Empty(t, f.movements.movements)
}

func TestCreateSale_MidSaleFailure_CompensatesInReverse(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	first := f.seedItem("Semovita 1kg", 10, 800, 1100, 2)
	second := f.seedItem("Sugar 500g", 8, 300, 450, 2)
	third := f.seedItem("Butter 250g", 6, 700, 950, 2)

	// The third decrement loses its guard, standing in for a concurrent sale
	// draining the item between pre-flight and decrement.
	f.items.reduceErr[third.ID] = apierror.ErrInsufficientStock

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ItemID: first.ID.String(), Quantity: 2},
			{ItemID: second.ID.String(), Quantity: 3},
			{ItemID: third.ID.String(), Quantity: 1},
		},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)

	assert.Equal(t, 10, f.items.items[first.ID].AvailableQty)
	assert.Equal(t, 8, f.items.items[second.ID].AvailableQty)
	require.Equal(t, []uuid.UUID{second.ID, first.ID}, f.items.restoreOrder,
		"applied decrements must roll back newest first")

	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.intents.intents, "intent cleared once every step is reverted")
	assert.Len(t, f.movements.byKind(model.MovementCompensation), 2)
}

func TestCreateSale_PersistFailure_RollsBackDecrements(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Detergent 900g", 12, 1400, 1900, 3)
	f.sales.createErr = errors.New("connection reset")

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 4}},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindInternal, apierror.KindOf(err))
	assert.Equal(t, 12, f.items.items[it.ID].AvailableQty)
	assert.Zero(t, f.items.items[it.ID].SoldQty)
	assert.Empty(t, f.intents.intents)
}

// ── CreateSale: validation and authorization ─────────────────────────────────

func TestCreateSale_EmptyLines_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateSale_DiscountAboveFifty_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Spaghetti 500g", 30, 500, 700, 5)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ItemID: it.ID.String(), Quantity: 1, DiscountPct: decimal.NewFromInt(55)},
		},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
	assert.Equal(t, 30, f.items.items[it.ID].AvailableQty)
}

func TestCreateSale_CreditWithoutCustomer_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Cement 50kg", 40, 9500, 11000, 10)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCredit,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateSale_UnknownPaymentMethod_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Bournvita 500g", 9, 2100, 2600, 2)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: "cowries",
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCreateSale_UnverifiedShop_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	f.directory.shops[f.shopID].Verified = false
	it := f.seedItem("Yam tuber", 14, 1200, 1800, 4)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCash,
	})

	assert.ErrorIs(t, err, apierror.ErrShopNotVerified)
}

func TestCreateSale_StaffFromAnotherShop_Forbidden(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	stranger := uuid.New()
	f.directory.staff[stranger] = &model.Staff{
		ID: stranger, ShopID: uuid.New(), Name: "Tunde", Role: model.RoleSales, Active: true,
	}
	it := f.seedItem("Tomato paste", 25, 250, 400, 5)

	_, err := svc.CreateSale(context.Background(), f.shopID, stranger, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindForbidden, apierror.KindOf(err))
}

func TestCreateSale_InactiveItem_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Kerosene 1L", 10, 800, 1000, 2)
	f.items.items[it.ID].Active = false

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCash,
	})

	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

// ── CreateSale: credit ledger opening ────────────────────────────────────────

func TestCreateSale_CreditOpensLedger(t *testing.T) {
	at := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	it := f.seedItem("Cement 50kg", 40, 9500, 11000, 10)

	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 5}},
		PaymentMethod: model.PayCredit,
		CustomerName:  "Chinedu Obi",
		CustomerPhone: "+2348031234567",
	})

	require.NoError(t, err)
	assert.True(t, resp.IsCredit)
	assert.Equal(t, string(model.CreditPending), resp.CreditStatus)
	assert.True(t, resp.AmountPaid.IsZero())
	assert.True(t, decimal.NewFromInt(55000).Equal(resp.AmountOwed))
	require.NotNil(t, resp.DueDate, "credit sales default to a due date")
	assert.Equal(t, at.Add(30*24*time.Hour).Format(time.RFC3339), *resp.DueDate)
}

func TestCreateSale_CreditKeepsExplicitDueDate(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Roofing sheet", 30, 4000, 5200, 5)
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 2}},
		PaymentMethod: model.PayCredit,
		CustomerName:  "Mrs. Balogun",
		CustomerPhone: "+2348029876543",
		DueDate:       &due,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.DueDate)
	assert.Equal(t, due.Format(time.RFC3339), *resp.DueDate)
}

// ── CreateSale: stock alerts ─────────────────────────────────────────────────

func TestCreateSale_LowStockAlert_OnThresholdCrossing(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Milo 400g", 6, 1500, 1900, 5)

	// 6 -> 4 crosses the reorder level of 5: exactly one alert.
	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 2}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Milo 400g"}, f.hooks.lowStock)

	// 4 -> 3 stays below the level: no second alert.
	_, err = svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 1}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)
	assert.Len(t, f.hooks.lowStock, 1)
}

func TestCreateSale_OutOfStockAlert_WhenDrained(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Eva Water 75cl", 3, 150, 250, 2)

	_, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: 3}},
		PaymentMethod: model.PayCash,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Eva Water 75cl"}, f.hooks.outOfStock)
	assert.Empty(t, f.hooks.lowStock, "out of stock supersedes the low-stock alert")
}

// ── Refund ───────────────────────────────────────────────────────────────────

func createCashSale(t *testing.T, svc service.SaleService, f *saleFixture, it *model.InventoryItem, qty int) uuid.UUID {
	t.Helper()
	resp, err := svc.CreateSale(context.Background(), f.shopID, f.sellerID, dto.CreateSaleRequest{
		Lines:         []dto.SaleLineRequest{{ItemID: it.ID.String(), Quantity: qty}},
		PaymentMethod: model.PayCash,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestRefund_RestoresStockAndFlags(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Omo 1kg", 10, 1000, 1400, 2)
	saleID := createCashSale(t, svc, f, it, 3)

	resp, err := svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "customer returned the goods")

	require.NoError(t, err)
	assert.True(t, resp.Refunded)
	require.NotNil(t, resp.RefundReason)
	assert.Equal(t, "customer returned the goods", *resp.RefundReason)
	assert.NotNil(t, resp.RefundedAt)

	item := f.items.items[it.ID]
	assert.Equal(t, 10, item.AvailableQty)
	assert.Zero(t, item.SoldQty)
	assert.Equal(t, 3, item.ReturnedQty, "refund counts as a customer return")

	refunds := f.movements.byKind(model.MovementRefund)
	require.Len(t, refunds, 1)
	assert.Equal(t, 3, refunds[0].Quantity)
	assert.Contains(t, f.hooks.actions, model.AuditSaleRefunded)
}

func TestRefund_SecondAttempt_Rejected(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Custard 2kg", 10, 1700, 2200, 2)
	saleID := createCashSale(t, svc, f, it, 3)

	_, err := svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "first refund")
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "second refund")

	assert.ErrorIs(t, err, apierror.ErrAlreadyRefunded)
	assert.Equal(t, 10, f.items.items[it.ID].AvailableQty, "stock restored exactly once")
}

func TestRefund_OutsideWindow_Rejected(t *testing.T) {
	at := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	it := f.seedItem("Ankara fabric", 10, 3500, 5000, 2)
	saleID := createCashSale(t, svc, f, it, 3)

	at = at.Add(31 * 24 * time.Hour)
	_, err := svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "changed their mind")

	assert.ErrorIs(t, err, apierror.ErrRefundWindow)
	assert.Equal(t, 7, f.items.items[it.ID].AvailableQty, "stock stays sold")
	assert.False(t, f.sales.sales[saleID].Refunded)
}

func TestRefund_OnWindowBoundary_Allowed(t *testing.T) {
	at := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	it := f.seedItem("Wrapper cloth", 10, 2800, 4200, 2)
	saleID := createCashSale(t, svc, f, it, 2)

	at = at.Add(30 * 24 * time.Hour)
	_, err := svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "still within the window")

	require.NoError(t, err)
	assert.Equal(t, 10, f.items.items[it.ID].AvailableQty)
}

// ── DeleteSale ───────────────────────────────────────────────────────────────

func TestDeleteSale_OwnerRestoresStock(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Maggi cubes", 50, 40, 60, 10)
	saleID := createCashSale(t, svc, f, it, 10)

	err := svc.DeleteSale(context.Background(), f.shopID, f.ownerID, saleID)

	require.NoError(t, err)
	assert.Equal(t, 50, f.items.items[it.ID].AvailableQty)
	assert.Zero(t, f.items.items[it.ID].ReturnedQty, "deletion is not a customer return")
	assert.Empty(t, f.sales.sales)
	require.Len(t, f.movements.byKind(model.MovementDeleteRestore), 1)
	assert.Contains(t, f.hooks.actions, model.AuditSaleDeleted)
}

func TestDeleteSale_NonOwner_Forbidden(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Soap tablet", 40, 180, 260, 8)
	saleID := createCashSale(t, svc, f, it, 5)

	err := svc.DeleteSale(context.Background(), f.shopID, f.sellerID, saleID)

	assert.ErrorIs(t, err, apierror.ErrOwnerOnly)
	assert.Len(t, f.sales.sales, 1)
	assert.Equal(t, 35, f.items.items[it.ID].AvailableQty, "sale stays applied")
}

func TestDeleteSale_AfterRefund_NoDoubleRestore(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Palm wine 1L", 10, 500, 800, 2)
	saleID := createCashSale(t, svc, f, it, 3)

	_, err := svc.Refund(context.Background(), f.shopID, f.sellerID, saleID, "spoilt batch")
	require.NoError(t, err)
	require.Equal(t, 10, f.items.items[it.ID].AvailableQty)

	err = svc.DeleteSale(context.Background(), f.shopID, f.ownerID, saleID)

	require.NoError(t, err)
	assert.Equal(t, 10, f.items.items[it.ID].AvailableQty, "refund already restored the stock")
	assert.Empty(t, f.sales.sales)
}

// ── Reads ────────────────────────────────────────────────────────────────────

func TestGetSale_UnknownID_NotFound(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})

	_, err := svc.GetSale(context.Background(), f.shopID, uuid.New())

	assert.ErrorIs(t, err, apierror.ErrSaleNotFound)
}

func TestGetSale_OtherShop_NotFound(t *testing.T) {
	svc, f := buildSaleSvc(service.SaleOptions{})
	it := f.seedItem("Big Cola 60cl", 24, 180, 250, 6)
	saleID := createCashSale(t, svc, f, it, 1)

	_, err := svc.GetSale(context.Background(), uuid.New(), saleID)

	assert.ErrorIs(t, err, apierror.ErrSaleNotFound, "sales are scoped to their shop")
}

// ── Recovery ─────────────────────────────────────────────────────────────────

func TestRecoverStaleIntents_RestoresAppliedSteps(t *testing.T) {
	at := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	garri := f.seedItem("Garri 2kg", 7, 600, 850, 2)
	palmOil := f.seedItem("Palm Oil 1L", 9, 1100, 1500, 2)

	// An interrupted sale: the first decrement landed, the second never ran.
	f.items.items[garri.ID].AvailableQty = 4
	f.items.items[garri.ID].SoldQty = 3
	intent := &model.SaleIntent{
		ShopID:     f.shopID,
		SaleNumber: 4242,
		StaffID:    f.sellerID,
		CreatedAt:  at.Add(-2 * time.Hour),
		Steps: []model.IntentStep{
			{ItemID: garri.ID, Quantity: 3, Applied: true},
			{ItemID: palmOil.ID, Quantity: 2, Applied: false},
		},
	}
	require.NoError(t, f.intents.Create(context.Background(), intent))

	n, err := svc.RecoverStaleIntents(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 7, f.items.items[garri.ID].AvailableQty)
	assert.Zero(t, f.items.items[garri.ID].SoldQty)
	assert.Equal(t, 9, f.items.items[palmOil.ID].AvailableQty, "unapplied steps are never restored")
	assert.Empty(t, f.intents.intents)
	assert.Len(t, f.movements.byKind(model.MovementCompensation), 1)
}

func TestRecoverStaleIntents_CompletedSale_DiscardedWithoutRestore(t *testing.T) {
	at := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	it := f.seedItem("Bread loaf", 5, 700, 900, 1)
	f.items.items[it.ID].AvailableQty = 3
	f.items.items[it.ID].SoldQty = 2

	// The sale landed; only the intent cleanup was lost in the crash.
	sale := &model.SaleRecord{
		ID:            uuid.New(),
		ShopID:        f.shopID,
		SaleNumber:    880,
		StaffID:       f.sellerID,
		Subtotal:      decimal.NewFromInt(1800),
		TotalAmount:   decimal.NewFromInt(1800),
		TotalProfit:   decimal.NewFromInt(400),
		PaymentMethod: model.PayCash,
		CreditStatus:  model.CreditPaid,
		AmountPaid:    decimal.NewFromInt(1800),
		AmountOwed:    decimal.Zero,
		CreatedAt:     at.Add(-2 * time.Hour),
	}
	f.sales.sales[sale.ID] = sale
	intent := &model.SaleIntent{
		ShopID:     f.shopID,
		SaleNumber: 880,
		StaffID:    f.sellerID,
		CreatedAt:  at.Add(-2 * time.Hour),
		Steps:      []model.IntentStep{{ItemID: it.ID, Quantity: 2, Applied: true}},
	}
	require.NoError(t, f.intents.Create(context.Background(), intent))

	n, err := svc.RecoverStaleIntents(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 3, f.items.items[it.ID].AvailableQty, "completed sale keeps its decrement")
	assert.Equal(t, 2, f.items.items[it.ID].SoldQty)
	assert.Empty(t, f.intents.intents, "completed intent is discarded")
}

func TestRecoverStaleIntents_FreshIntent_LeftAlone(t *testing.T) {
	at := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	svc, f := buildSaleSvc(service.SaleOptions{Now: func() time.Time { return at }})
	it := f.seedItem("Egg crate", 8, 2800, 3500, 2)
	f.items.items[it.ID].AvailableQty = 6
	f.items.items[it.ID].SoldQty = 2

	intent := &model.SaleIntent{
		ShopID:     f.shopID,
		SaleNumber: 4300,
		StaffID:    f.sellerID,
		CreatedAt:  at.Add(-5 * time.Minute),
		Steps:      []model.IntentStep{{ItemID: it.ID, Quantity: 2, Applied: true}},
	}
	require.NoError(t, f.intents.Create(context.Background(), intent))

	n, err := svc.RecoverStaleIntents(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Zero(t, n, "an in-flight transaction must not be rolled back")
	assert.Equal(t, 6, f.items.items[it.ID].AvailableQty)
	assert.Len(t, f.intents.intents, 1)
}
