package service

import (
	"context"
	"fmt"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockService covers the inventory adjustments that happen outside a sale:
// receiving stock, writing off damage, low-stock reporting, and the
// reconciliation pass over the item counters.
type StockService interface {
	Restock(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.RestockRequest) (*dto.StockLevelResponse, error)
	RecordDamage(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.DamageRequest) (*dto.StockLevelResponse, error)
	LowStockReport(ctx context.Context, shopID uuid.UUID) ([]dto.ItemResponse, error)
	// Reconcile checks available == initial + restocked - sold - damaged for
	// every active item of the shop. It reports drift and never corrects it.
	Reconcile(ctx context.Context, shopID uuid.UUID) (*dto.ReconcileReport, error)
}

type stockService struct {
	items     repository.ItemRepository
	movements repository.StockMovementRepository
	audit     AuditSink
	now       func() time.Time
}

func NewStockService(
	items repository.ItemRepository,
	movements repository.StockMovementRepository,
	audit AuditSink,
	now func() time.Time,
) StockService {
	if now == nil {
		now = time.Now
	}
	return &stockService{items: items, movements: movements, audit: audit, now: now}
}

func (s *stockService) Restock(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.RestockRequest) (*dto.StockLevelResponse, error) {
	if req.Quantity < 1 {
		return nil, apierror.E(apierror.KindValidation, "restock quantity must be at least 1")
	}
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}

	newAvail, err := s.items.AddStock(ctx, it.ID, req.Quantity)
	if err != nil {
		return nil, err
	}

	actor := staffID
	ref := it.ID
	s.record(ctx, &model.StockMovement{
		ItemID:    it.ID,
		Kind:      model.MovementRestock,
		Quantity:  req.Quantity,
		BeforeQty: newAvail - req.Quantity,
		AfterQty:  newAvail,
		Reason:    req.Note,
		RefID:     &ref,
		ActorID:   &actor,
	})
	s.logEvent(ctx, model.AuditStockRestocked, shopID, staffID, it.ID,
		fmt.Sprintf("%q restocked by %d (now %d)", it.Name, req.Quantity, newAvail))

	return &dto.StockLevelResponse{ItemID: it.ID.String(), AvailableQty: newAvail}, nil
}

func (s *stockService) RecordDamage(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.DamageRequest) (*dto.StockLevelResponse, error) {
	if req.Quantity < 1 {
		return nil, apierror.E(apierror.KindValidation, "damage quantity must be at least 1")
	}
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}

	// Same conditional guard as a sale: writing off more than is available
	// is rejected, not clamped.
	newAvail, err := s.items.RemoveDamaged(ctx, it.ID, req.Quantity)
	if err != nil {
		return nil, err
	}

	actor := staffID
	ref := it.ID
	s.record(ctx, &model.StockMovement{
		ItemID:    it.ID,
		Kind:      model.MovementDamage,
		Quantity:  -req.Quantity,
		BeforeQty: newAvail + req.Quantity,
		AfterQty:  newAvail,
		Reason:    req.Reason,
		RefID:     &ref,
		ActorID:   &actor,
	})
	s.logEvent(ctx, model.AuditStockDamaged, shopID, staffID, it.ID,
		fmt.Sprintf("%q damaged write-off of %d: %s", it.Name, req.Quantity, req.Reason))

	return &dto.StockLevelResponse{ItemID: it.ID.String(), AvailableQty: newAvail}, nil
}

func (s *stockService) LowStockReport(ctx context.Context, shopID uuid.UUID) ([]dto.ItemResponse, error) {
	items, err := s.items.ListBelowReorder(ctx, shopID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *itemToResponse(&items[i]))
	}
	return out, nil
}

func (s *stockService) Reconcile(ctx context.Context, shopID uuid.UUID) (*dto.ReconcileReport, error) {
	items, err := s.items.ListForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	report := &dto.ReconcileReport{
		CheckedItems: len(items),
		Drifts:       []dto.ReconcileDrift{},
		CheckedAt:    s.now().Format(time.RFC3339),
	}
	for i := range items {
		it := &items[i]
		expected := it.InitialQty + it.RestockedQty - it.SoldQty - it.DamagedQty
		if expected == it.AvailableQty {
			continue
		}
		drift := dto.ReconcileDrift{
			ItemID:       it.ID.String(),
			Name:         it.Name,
			Expected:     expected,
			AvailableQty: it.AvailableQty,
			Delta:        it.AvailableQty - expected,
		}
		report.Drifts = append(report.Drifts, drift)
		log.Warn().
			Str("item_id", drift.ItemID).
			Str("item", it.Name).
			Int("expected", expected).
			Int("available", it.AvailableQty).
			Msg("reconcile: counter drift detected")
		s.logEvent(ctx, model.AuditStockDrift, shopID, uuid.Nil, it.ID,
			fmt.Sprintf("%q drift: expected %d, available %d", it.Name, expected, it.AvailableQty))
	}
	return report, nil
}

func (s *stockService) record(ctx context.Context, m *model.StockMovement) {
	if s.movements == nil {
		return
	}
	if err := s.movements.Create(ctx, m); err != nil {
		log.Warn().Err(err).Str("item_id", m.ItemID.String()).Str("kind", m.Kind).Msg("stock movement record failed")
	}
}

func (s *stockService) logEvent(ctx context.Context, action string, shopID, actorID, entityID uuid.UUID, detail string) {
	if s.audit == nil {
		return
	}
	entity := entityID
	var actor *uuid.UUID
	if actorID != uuid.Nil {
		a := actorID
		actor = &a
	}
	if err := s.audit.LogEvent(ctx, action, shopID, actor, &entity, detail); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit event failed")
	}
}
