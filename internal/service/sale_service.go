package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const recoveryBatchSize = 50

type SaleService interface {
	CreateSale(ctx context.Context, shopID, staffID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, shopID, saleID uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, shopID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Refund(ctx context.Context, shopID, staffID, saleID uuid.UUID, reason string) (*dto.SaleResponse, error)
	DeleteSale(ctx context.Context, shopID, staffID, saleID uuid.UUID) error
	RecoverStaleIntents(ctx context.Context, olderThan time.Duration) (int, error)
}

// SaleOptions carries the engine tunables. Zero values fall back to the
// 30-day defaults; Now exists so tests can pin the clock.
type SaleOptions struct {
	RefundWindow time.Duration
	CreditTerm   time.Duration
	Now          func() time.Time
}

type saleService struct {
	sales     repository.SaleRepository
	items     repository.ItemRepository
	intents   repository.IntentRepository
	directory repository.DirectoryRepository
	movements repository.StockMovementRepository
	notifier  Notifier
	audit     AuditSink
	receipts  ReceiptQueue

	refundWindow time.Duration
	creditTerm   time.Duration
	now          func() time.Time
}

func NewSaleService(
	sales repository.SaleRepository,
	items repository.ItemRepository,
	intents repository.IntentRepository,
	directory repository.DirectoryRepository,
	movements repository.StockMovementRepository,
	notifier Notifier,
	audit AuditSink,
	receipts ReceiptQueue,
	opts SaleOptions,
) SaleService {
	if opts.RefundWindow == 0 {
		opts.RefundWindow = 30 * 24 * time.Hour
	}
	if opts.CreditTerm == 0 {
		opts.CreditTerm = 30 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &saleService{
		sales:        sales,
		items:        items,
		intents:      intents,
		directory:    directory,
		movements:    movements,
		notifier:     notifier,
		audit:        audit,
		receipts:     receipts,
		refundWindow: opts.RefundWindow,
		creditTerm:   opts.CreditTerm,
		now:          opts.Now,
	}
}

// resolvedLine is a sale line after catalog lookup, with the money math done.
type resolvedLine struct {
	itemID       uuid.UUID
	name         string
	category     string
	qty          int
	costPrice    decimal.Decimal
	sellingPrice decimal.Decimal
	discountPct  decimal.Decimal
	lineTotal    decimal.Decimal
	lineProfit   decimal.Decimal
	reorderLevel int
}

// appliedStep is one decrement that landed, paired with its intent step so
// compensation and recovery stay in sync.
type appliedStep struct {
	stepID   uuid.UUID
	itemID   uuid.UUID
	qty      int
	newAvail int
}

// ── CreateSale ───────────────────────────────────────────────────────────────
// The storage offers no transaction across item rows, so the engine runs as a
// sequence of atomic single-row updates with compensation:
//   1. validate the request, no state touched
//   2. authorize shop and staff against the directory
//   3. resolve items and compute totals (pre-flight reads)
//   4. reserve a sale number, write the intent
//   5. decrement stock line by line; first failure rolls back the decrements
//      that landed and surfaces the original error
//   6. persist the sale record; persist failure rolls back everything
//   7. clear the intent
//   8. fire hooks (alerts, audit, receipt) — best-effort, never rolls back

func (s *saleService) CreateSale(ctx context.Context, shopID, staffID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// 1. Validation phase.
	if err := validateSaleRequest(req); err != nil {
		return nil, err
	}

	// 2. Authorization phase.
	if err := s.authorize(ctx, shopID, staffID); err != nil {
		return nil, err
	}

	// 3. Resolution phase. The availability check here is only a cheap
	// pre-flight: the guard inside ReduceStock is what actually holds.
	resolved, err := s.resolveLines(ctx, shopID, req.Lines)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	profit := decimal.Zero
	for _, r := range resolved {
		subtotal = subtotal.Add(r.lineTotal)
		profit = profit.Add(r.lineProfit)
	}
	total := subtotal

	// 4. Reserve the number and write the intent before any mutation.
	number, err := s.sales.NextSaleNumber(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.KindInternal, "reserving sale number failed", err)
	}
	intent := &model.SaleIntent{
		ShopID:     shopID,
		SaleNumber: number,
		StaffID:    staffID,
		CreatedAt:  s.now(),
	}
	for _, r := range resolved {
		intent.Steps = append(intent.Steps, model.IntentStep{ItemID: r.itemID, Quantity: r.qty})
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, apierror.Wrap(apierror.KindInternal, "recording sale intent failed", err)
	}

	// 5. Mutation phase: sequential conditional decrements.
	var applied []appliedStep
	for i, r := range resolved {
		newAvail, err := s.items.ReduceStock(ctx, r.itemID, r.qty)
		if err != nil {
			s.compensate(ctx, intent, applied, number)
			return nil, err
		}
		applied = append(applied, appliedStep{
			stepID:   intent.Steps[i].ID,
			itemID:   r.itemID,
			qty:      r.qty,
			newAvail: newAvail,
		})
		if merr := s.intents.MarkStepApplied(ctx, intent.Steps[i].ID); merr != nil {
			log.Warn().Err(merr).Str("item_id", r.itemID.String()).Msg("sale: marking intent step failed")
		}
	}

	// 6. Persist phase.
	sale := s.buildSale(shopID, staffID, number, req, resolved, subtotal, total, profit)
	if err := s.sales.Create(ctx, sale); err != nil {
		s.compensate(ctx, intent, applied, number)
		return nil, apierror.Wrap(apierror.KindInternal, "persisting sale failed", err)
	}

	// 7. Clear the intent. A failure here is harmless: recovery sees the
	// persisted sale number and discards the intent without restoring.
	if err := s.intents.Delete(ctx, intent.ID); err != nil {
		log.Warn().Err(err).Int("sale_number", number).Msg("sale: clearing intent failed")
	}

	// 8. Post-commit hooks.
	s.recordSaleMovements(ctx, sale, applied, staffID)
	s.fireStockAlerts(ctx, shopID, resolved, applied)
	if s.notifier != nil {
		if err := s.notifier.OnSaleCompleted(ctx, shopID, sale.ID, number, total); err != nil {
			log.Warn().Err(err).Int("sale_number", number).Msg("sale: completion notification failed")
		}
	}
	s.logEvent(ctx, model.AuditSaleCreated, shopID, staffID, sale.ID,
		fmt.Sprintf("sale #%d, %d lines, total %s", number, len(resolved), total.StringFixed(2)))
	if s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, sale.ID, req.CustomerEmail); err != nil {
			log.Warn().Err(err).Int("sale_number", number).Msg("sale: receipt enqueue failed")
		}
	}

	return saleToResponse(sale), nil
}

func validateSaleRequest(req dto.CreateSaleRequest) error {
	if len(req.Lines) == 0 {
		return apierror.E(apierror.KindValidation, "sale requires at least one line")
	}
	maxDiscount := decimal.NewFromInt(50)
	for _, l := range req.Lines {
		if l.Quantity < 1 {
			return apierror.E(apierror.KindValidation, "line quantity must be at least 1")
		}
		if l.DiscountPct.IsNegative() || l.DiscountPct.GreaterThan(maxDiscount) {
			return apierror.E(apierror.KindValidation, "discount must be between 0 and 50 percent")
		}
	}
	switch req.PaymentMethod {
	case model.PayCash, model.PayCard, model.PayTransfer:
	case model.PayCredit:
		if req.CustomerName == "" || req.CustomerPhone == "" {
			return apierror.E(apierror.KindValidation, "credit sales require customer name and phone")
		}
	default:
		return apierror.Ef(apierror.KindValidation, "unknown payment method %q", req.PaymentMethod)
	}
	return nil
}

func (s *saleService) authorize(ctx context.Context, shopID, staffID uuid.UUID) error {
	ok, err := s.directory.ShopExistsAndVerified(ctx, shopID)
	if err != nil {
		return apierror.Wrap(apierror.KindInternal, "shop lookup failed", err)
	}
	if !ok {
		return apierror.ErrShopNotVerified
	}
	staff, err := s.directory.FindStaffByID(ctx, staffID)
	if err != nil {
		return err
	}
	if staff.ShopID != shopID {
		return apierror.E(apierror.KindForbidden, "staff does not belong to this shop")
	}
	return nil
}

func (s *saleService) resolveLines(ctx context.Context, shopID uuid.UUID, lines []dto.SaleLineRequest) ([]resolvedLine, error) {
	hundred := decimal.NewFromInt(100)
	resolved := make([]resolvedLine, 0, len(lines))
	for _, l := range lines {
		itemID, err := uuid.Parse(l.ItemID)
		if err != nil {
			return nil, apierror.Ef(apierror.KindValidation, "invalid item id %q", l.ItemID)
		}
		it, err := s.items.FindForShop(ctx, shopID, itemID)
		if err != nil {
			return nil, err
		}
		if !it.Active {
			return nil, apierror.Ef(apierror.KindConflict, "item %q is inactive", it.Name)
		}
		if it.AvailableQty < l.Quantity {
			return nil, apierror.ErrInsufficientStock
		}

		qty := decimal.NewFromInt(int64(l.Quantity))
		lineSubtotal := it.SellingPrice.Mul(qty)
		discount := lineSubtotal.Mul(l.DiscountPct).Div(hundred).Round(2)
		lineTotal := lineSubtotal.Sub(discount)
		lineProfit := lineTotal.Sub(it.CostPrice.Mul(qty))

		resolved = append(resolved, resolvedLine{
			itemID:       it.ID,
			name:         it.Name,
			category:     it.Category,
			qty:          l.Quantity,
			costPrice:    it.CostPrice,
			sellingPrice: it.SellingPrice,
			discountPct:  l.DiscountPct,
			lineTotal:    lineTotal,
			lineProfit:   lineProfit,
			reorderLevel: it.ReorderLevel,
		})
	}
	return resolved, nil
}

func (s *saleService) buildSale(shopID, staffID uuid.UUID, number int, req dto.CreateSaleRequest, resolved []resolvedLine, subtotal, total, profit decimal.Decimal) *model.SaleRecord {
	isCredit := req.PaymentMethod == model.PayCredit
	sale := &model.SaleRecord{
		ShopID:        shopID,
		SaleNumber:    number,
		StaffID:       staffID,
		Subtotal:      subtotal,
		TotalAmount:   total,
		TotalProfit:   profit,
		PaymentMethod: req.PaymentMethod,
		IsCredit:      isCredit,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CreatedAt:     s.now(),
	}
	if isCredit {
		sale.CreditStatus = model.CreditPending
		sale.AmountPaid = decimal.Zero
		sale.AmountOwed = total
		if req.DueDate != nil {
			sale.DueDate = req.DueDate
		} else {
			due := s.now().Add(s.creditTerm)
			sale.DueDate = &due
		}
	} else {
		sale.CreditStatus = model.CreditPaid
		sale.AmountPaid = total
		sale.AmountOwed = decimal.Zero
	}
	for _, r := range resolved {
		sale.Lines = append(sale.Lines, model.SaleLine{
			ItemID:       r.itemID,
			Name:         r.name,
			Category:     r.category,
			Quantity:     r.qty,
			CostPrice:    r.costPrice,
			SellingPrice: r.sellingPrice,
			DiscountPct:  r.discountPct,
			LineTotal:    r.lineTotal,
			LineProfit:   r.lineProfit,
		})
	}
	return sale
}

// compensate restores every decrement that landed, newest first. Steps whose
// restore succeeds are marked reverted; the intent only disappears once all
// of them are back, otherwise the recovery sweep finishes the job later.
func (s *saleService) compensate(ctx context.Context, intent *model.SaleIntent, applied []appliedStep, saleNumber int) {
	allReverted := true
	for i := len(applied) - 1; i >= 0; i-- {
		st := applied[i]
		newAvail, err := s.items.RestoreStock(ctx, st.itemID, st.qty, false)
		if err != nil {
			allReverted = false
			log.Error().Err(err).
				Str("item_id", st.itemID.String()).
				Int("sale_number", saleNumber).
				Msg("sale: compensation restore failed, leaving to recovery")
			continue
		}
		if merr := s.intents.MarkStepReverted(ctx, st.stepID); merr != nil {
			log.Warn().Err(merr).Str("item_id", st.itemID.String()).Msg("sale: marking step reverted failed")
		}
		ref := intent.ID
		s.recordMovement(ctx, &model.StockMovement{
			ItemID:    st.itemID,
			Kind:      model.MovementCompensation,
			Quantity:  st.qty,
			BeforeQty: newAvail - st.qty,
			AfterQty:  newAvail,
			Reason:    fmt.Sprintf("compensation for aborted sale #%d", saleNumber),
			RefID:     &ref,
		})
	}
	if allReverted {
		if err := s.intents.Delete(ctx, intent.ID); err != nil {
			log.Warn().Err(err).Int("sale_number", saleNumber).Msg("sale: clearing intent after compensation failed")
		}
	}
}

func (s *saleService) recordSaleMovements(ctx context.Context, sale *model.SaleRecord, applied []appliedStep, staffID uuid.UUID) {
	for _, st := range applied {
		ref := sale.ID
		actor := staffID
		s.recordMovement(ctx, &model.StockMovement{
			ItemID:    st.itemID,
			Kind:      model.MovementSale,
			Quantity:  -st.qty,
			BeforeQty: st.newAvail + st.qty,
			AfterQty:  st.newAvail,
			Reason:    fmt.Sprintf("sale #%d", sale.SaleNumber),
			RefID:     &ref,
			ActorID:   &actor,
		})
	}
}

// fireStockAlerts compares each line's stock level before and after the
// decrement so an alert fires once, on the crossing, not on every sale below
// the threshold.
func (s *saleService) fireStockAlerts(ctx context.Context, shopID uuid.UUID, resolved []resolvedLine, applied []appliedStep) {
	if s.notifier == nil {
		return
	}
	for i, st := range applied {
		r := resolved[i]
		before := st.newAvail + st.qty
		switch {
		case st.newAvail == 0:
			if err := s.notifier.OnOutOfStock(ctx, shopID, st.itemID, r.name); err != nil {
				log.Warn().Err(err).Str("item", r.name).Msg("sale: out-of-stock notification failed")
			}
		case st.newAvail <= r.reorderLevel && before > r.reorderLevel:
			if err := s.notifier.OnLowStock(ctx, shopID, st.itemID, r.name, st.newAvail, r.reorderLevel); err != nil {
				log.Warn().Err(err).Str("item", r.name).Msg("sale: low-stock notification failed")
			}
		}
	}
}

// ── Refund ───────────────────────────────────────────────────────────────────

func (s *saleService) Refund(ctx context.Context, shopID, staffID, saleID uuid.UUID, reason string) (*dto.SaleResponse, error) {
	if err := s.authorize(ctx, shopID, staffID); err != nil {
		return nil, err
	}
	sale, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Refunded {
		return nil, apierror.ErrAlreadyRefunded
	}
	if s.now().Sub(sale.CreatedAt) > s.refundWindow {
		return nil, apierror.ErrRefundWindow
	}

	// Claim the flag before touching stock: whoever wins the conditional
	// update is the only caller that restores.
	if err := s.sales.ClaimRefund(ctx, saleID, staffID, reason, s.now()); err != nil {
		return nil, err
	}

	var restoreErr error
	for _, line := range sale.Lines {
		newAvail, err := s.items.RestoreStock(ctx, line.ItemID, line.Quantity, true)
		if err != nil {
			if restoreErr == nil {
				restoreErr = err
			}
			log.Error().Err(err).
				Str("item_id", line.ItemID.String()).
				Int("sale_number", sale.SaleNumber).
				Msg("refund: stock restore failed")
			continue
		}
		ref := sale.ID
		actor := staffID
		s.recordMovement(ctx, &model.StockMovement{
			ItemID:    line.ItemID,
			Kind:      model.MovementRefund,
			Quantity:  line.Quantity,
			BeforeQty: newAvail - line.Quantity,
			AfterQty:  newAvail,
			Reason:    fmt.Sprintf("refund of sale #%d: %s", sale.SaleNumber, reason),
			RefID:     &ref,
			ActorID:   &actor,
		})
	}

	s.logEvent(ctx, model.AuditSaleRefunded, shopID, staffID, sale.ID,
		fmt.Sprintf("sale #%d refunded: %s", sale.SaleNumber, reason))

	if restoreErr != nil {
		// The record stays refunded; the stock gap is visible to the
		// reconciliation pass.
		return nil, apierror.Wrap(apierror.KindInternal, "refund recorded but stock restore incomplete", restoreErr)
	}

	refreshed, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}
	return saleToResponse(refreshed), nil
}

// ── DeleteSale ───────────────────────────────────────────────────────────────

func (s *saleService) DeleteSale(ctx context.Context, shopID, staffID, saleID uuid.UUID) error {
	staff, err := s.directory.FindStaffByID(ctx, staffID)
	if err != nil {
		return err
	}
	if staff.ShopID != shopID || staff.Role != model.RoleOwner {
		return apierror.ErrOwnerOnly
	}
	sale, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return err
	}

	// A never-refunded sale gives its stock back before the record goes.
	// The refund claim doubles as the concurrency guard: a racing refund or
	// second delete loses the conditional update and restores nothing.
	if !sale.Refunded {
		if err := s.sales.ClaimRefund(ctx, saleID, staffID, "deleted by owner", s.now()); err != nil {
			if !errors.Is(err, apierror.ErrAlreadyRefunded) {
				return err
			}
		} else {
			for _, line := range sale.Lines {
				newAvail, rerr := s.items.RestoreStock(ctx, line.ItemID, line.Quantity, false)
				if rerr != nil {
					log.Error().Err(rerr).
						Str("item_id", line.ItemID.String()).
						Int("sale_number", sale.SaleNumber).
						Msg("delete: stock restore failed")
					continue
				}
				ref := sale.ID
				actor := staffID
				s.recordMovement(ctx, &model.StockMovement{
					ItemID:    line.ItemID,
					Kind:      model.MovementDeleteRestore,
					Quantity:  line.Quantity,
					BeforeQty: newAvail - line.Quantity,
					AfterQty:  newAvail,
					Reason:    fmt.Sprintf("deletion of sale #%d", sale.SaleNumber),
					RefID:     &ref,
					ActorID:   &actor,
				})
			}
		}
	}

	if err := s.sales.Delete(ctx, saleID); err != nil {
		return apierror.Wrap(apierror.KindInternal, "deleting sale failed", err)
	}
	s.logEvent(ctx, model.AuditSaleDeleted, shopID, staffID, sale.ID,
		fmt.Sprintf("sale #%d deleted by owner", sale.SaleNumber))
	return nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, shopID, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, shopID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Recovery ─────────────────────────────────────────────────────────────────
// RecoverStaleIntents rolls back whatever interrupted transactions left
// behind. An intent whose sale number exists in the store belongs to a
// transaction that completed (only the cleanup was lost), so it is discarded
// without touching stock. Everything else gets its applied steps restored.

func (s *saleService) RecoverStaleIntents(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	intents, err := s.intents.ListStale(ctx, cutoff, recoveryBatchSize)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for i := range intents {
		in := &intents[i]

		if _, err := s.sales.FindByNumber(ctx, in.SaleNumber); err == nil {
			if derr := s.intents.Delete(ctx, in.ID); derr != nil {
				log.Warn().Err(derr).Int("sale_number", in.SaleNumber).Msg("recovery: discarding completed intent failed")
			}
			continue
		} else if !errors.Is(err, apierror.ErrSaleNotFound) {
			log.Error().Err(err).Int("sale_number", in.SaleNumber).Msg("recovery: sale lookup failed")
			continue
		}

		allReverted := true
		for _, step := range in.Steps {
			if !step.Applied {
				continue
			}
			newAvail, rerr := s.items.RestoreStock(ctx, step.ItemID, step.Quantity, false)
			if rerr != nil {
				allReverted = false
				log.Error().Err(rerr).
					Str("item_id", step.ItemID.String()).
					Int("sale_number", in.SaleNumber).
					Msg("recovery: restore failed")
				continue
			}
			if merr := s.intents.MarkStepReverted(ctx, step.ID); merr != nil {
				log.Warn().Err(merr).Msg("recovery: marking step reverted failed")
			}
			ref := in.ID
			s.recordMovement(ctx, &model.StockMovement{
				ItemID:    step.ItemID,
				Kind:      model.MovementCompensation,
				Quantity:  step.Quantity,
				BeforeQty: newAvail - step.Quantity,
				AfterQty:  newAvail,
				Reason:    fmt.Sprintf("recovery of interrupted sale #%d", in.SaleNumber),
				RefID:     &ref,
			})
		}
		if !allReverted {
			continue
		}
		if err := s.intents.Delete(ctx, in.ID); err != nil {
			log.Warn().Err(err).Int("sale_number", in.SaleNumber).Msg("recovery: deleting intent failed")
			continue
		}
		recovered++
		log.Info().Int("sale_number", in.SaleNumber).Msg("recovery: interrupted sale rolled back")
	}
	return recovered, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *saleService) recordMovement(ctx context.Context, m *model.StockMovement) {
	if s.movements == nil {
		return
	}
	if err := s.movements.Create(ctx, m); err != nil {
		log.Warn().Err(err).Str("item_id", m.ItemID.String()).Str("kind", m.Kind).Msg("stock movement record failed")
	}
}

func (s *saleService) logEvent(ctx context.Context, action string, shopID, actorID, entityID uuid.UUID, detail string) {
	if s.audit == nil {
		return
	}
	actor := actorID
	entity := entityID
	if err := s.audit.LogEvent(ctx, action, shopID, &actor, &entity, detail); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit event failed")
	}
}

func saleToResponse(v *model.SaleRecord) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ItemID:       l.ItemID.String(),
			Name:         l.Name,
			Quantity:     l.Quantity,
			SellingPrice: l.SellingPrice,
			DiscountPct:  l.DiscountPct,
			LineTotal:    l.LineTotal,
			LineProfit:   l.LineProfit,
		})
	}
	payments := make([]dto.PaymentResponse, 0, len(v.Payments))
	for _, p := range v.Payments {
		payments = append(payments, dto.PaymentResponse{
			ID:         p.ID.String(),
			Amount:     p.Amount,
			Method:     p.Method,
			ReceivedBy: p.ReceivedBy.String(),
			PaidAt:     p.PaidAt.Format(time.RFC3339),
		})
	}
	resp := &dto.SaleResponse{
		ID:            v.ID.String(),
		SaleNumber:    v.SaleNumber,
		StaffID:       v.StaffID.String(),
		Lines:         lines,
		Subtotal:      v.Subtotal,
		TotalAmount:   v.TotalAmount,
		TotalProfit:   v.TotalProfit,
		PaymentMethod: v.PaymentMethod,
		IsCredit:      v.IsCredit,
		CreditStatus:  string(v.CreditStatus),
		AmountPaid:    v.AmountPaid,
		AmountOwed:    v.AmountOwed,
		CustomerName:  v.CustomerName,
		CustomerPhone: v.CustomerPhone,
		Payments:      payments,
		Refunded:      v.Refunded,
		RefundReason:  v.RefundReason,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
	if v.DueDate != nil {
		due := v.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	if v.RefundedAt != nil {
		at := v.RefundedAt.Format(time.RFC3339)
		resp.RefundedAt = &at
	}
	return resp
}
