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

// ItemService manages the shop catalog. Quantities are not touched here
// beyond the opening stock: every later change goes through the ledger
// primitives on StockService or the sale engine.
type ItemService interface {
	CreateItem(ctx context.Context, shopID, staffID uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, shopID, itemID uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, shopID uuid.UUID, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	UpdateItem(ctx context.Context, shopID, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	UpdatePrices(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.UpdatePriceRequest) (*dto.ItemResponse, error)
	PriceHistory(ctx context.Context, shopID, itemID uuid.UUID) ([]dto.PriceHistoryResponse, error)
	DeactivateItem(ctx context.Context, shopID, itemID uuid.UUID) error
}

type itemService struct {
	items  repository.ItemRepository
	prices repository.PriceHistoryRepository
	audit  AuditSink
}

func NewItemService(
	items repository.ItemRepository,
	prices repository.PriceHistoryRepository,
	audit AuditSink,
) ItemService {
	return &itemService{items: items, prices: prices, audit: audit}
}

func (s *itemService) CreateItem(ctx context.Context, shopID, staffID uuid.UUID, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.SellingPrice.LessThan(req.CostPrice) {
		return nil, apierror.E(apierror.KindValidation, "selling price below cost price")
	}
	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	it := &model.InventoryItem{
		ShopID:       shopID,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         unit,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		AvailableQty: req.InitialQty,
		InitialQty:   req.InitialQty,
		ReorderLevel: req.ReorderLevel,
		Active:       true,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, apierror.Wrap(apierror.KindInternal, "creating item failed", err)
	}
	return itemToResponse(it), nil
}

func (s *itemService) GetItem(ctx context.Context, shopID, itemID uuid.UUID) (*dto.ItemResponse, error) {
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}
	return itemToResponse(it), nil
}

func (s *itemService) ListItems(ctx context.Context, shopID uuid.UUID, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	items, total, err := s.items.List(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *itemService) UpdateItem(ctx context.Context, shopID, itemID uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Category != nil {
		it.Category = *req.Category
	}
	if req.Unit != nil {
		it.Unit = *req.Unit
	}
	if req.ReorderLevel != nil {
		it.ReorderLevel = *req.ReorderLevel
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, apierror.Wrap(apierror.KindInternal, "updating item failed", err)
	}
	return itemToResponse(it), nil
}

func (s *itemService) UpdatePrices(ctx context.Context, shopID, staffID, itemID uuid.UUID, req dto.UpdatePriceRequest) (*dto.ItemResponse, error) {
	if req.SellingPrice.LessThan(req.CostPrice) {
		return nil, apierror.E(apierror.KindValidation, "selling price below cost price")
	}
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.items.UpdatePrices(ctx, it.ID, req.CostPrice, req.SellingPrice); err != nil {
		return nil, err
	}

	if s.prices != nil {
		hist := &model.PriceHistory{
			ItemID:     it.ID,
			CostBefore: it.CostPrice,
			CostAfter:  req.CostPrice,
			SellBefore: it.SellingPrice,
			SellAfter:  req.SellingPrice,
			ChangedBy:  staffID,
			Reason:     req.Reason,
		}
		if herr := s.prices.Create(ctx, hist); herr != nil {
			log.Warn().Err(herr).Str("item_id", it.ID.String()).Msg("price history record failed")
		}
	}
	if s.audit != nil {
		actor := staffID
		entity := it.ID
		if aerr := s.audit.LogEvent(ctx, model.AuditPriceChanged, shopID, &actor, &entity,
			fmt.Sprintf("%q price %s -> %s", it.Name, it.SellingPrice.StringFixed(2), req.SellingPrice.StringFixed(2))); aerr != nil {
			log.Warn().Err(aerr).Msg("item: audit event failed")
		}
	}

	it.CostPrice = req.CostPrice
	it.SellingPrice = req.SellingPrice
	return itemToResponse(it), nil
}

func (s *itemService) PriceHistory(ctx context.Context, shopID, itemID uuid.UUID) ([]dto.PriceHistoryResponse, error) {
	it, err := s.items.FindForShop(ctx, shopID, itemID)
	if err != nil {
		return nil, err
	}
	entries, err := s.prices.ListByItem(ctx, it.ID, 100)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.PriceHistoryResponse{
			CostBefore: e.CostBefore,
			CostAfter:  e.CostAfter,
			SellBefore: e.SellBefore,
			SellAfter:  e.SellAfter,
			ChangedBy:  e.ChangedBy.String(),
			Reason:     e.Reason,
			ChangedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *itemService) DeactivateItem(ctx context.Context, shopID, itemID uuid.UUID) error {
	return s.items.SoftDelete(ctx, shopID, itemID)
}

func itemToResponse(it *model.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           it.ID.String(),
		Name:         it.Name,
		Category:     it.Category,
		Unit:         it.Unit,
		CostPrice:    it.CostPrice,
		SellingPrice: it.SellingPrice,
		AvailableQty: it.AvailableQty,
		SoldQty:      it.SoldQty,
		DamagedQty:   it.DamagedQty,
		ReturnedQty:  it.ReturnedQty,
		ReorderLevel: it.ReorderLevel,
		LowStock:     it.AvailableQty <= it.ReorderLevel,
		Active:       it.Active,
		CreatedAt:    it.CreatedAt.Format(time.RFC3339),
	}
}
