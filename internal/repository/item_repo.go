package repository

import (
	"context"
	"errors"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for inventory items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
//
// The stock mutators are the ledger primitives: each one is a single
// conditional UPDATE whose WHERE clause carries the quantity guard, so the
// check and the write cannot be split by a concurrent sale. Zero rows
// affected means the guard failed, never that the write was lost.
type ItemRepository interface {
	Create(ctx context.Context, it *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindForShop(ctx context.Context, shopID, id uuid.UUID) (*model.InventoryItem, error)
	List(ctx context.Context, shopID uuid.UUID, filter dto.ItemFilter) ([]model.InventoryItem, int64, error)
	Update(ctx context.Context, it *model.InventoryItem) error
	SoftDelete(ctx context.Context, shopID, id uuid.UUID) error
	ListBelowReorder(ctx context.Context, shopID uuid.UUID) ([]model.InventoryItem, error)
	ListForShop(ctx context.Context, shopID uuid.UUID) ([]model.InventoryItem, error)

	// ReduceStock applies `available_qty -= qty` only while
	// `available_qty >= qty` holds, and moves the quantity onto the sold
	// counter in the same statement. Returns the new available quantity.
	ReduceStock(ctx context.Context, id uuid.UUID, qty int) (int, error)

	// RestoreStock undoes a prior ReduceStock of the same quantity. When
	// customerReturn is true the returned counter is bumped as well.
	// Callers track which decrements actually landed, so one restore call
	// always maps to exactly one earlier decrement.
	RestoreStock(ctx context.Context, id uuid.UUID, qty int, customerReturn bool) (int, error)

	// AddStock receives new inventory: available and restocked both grow.
	AddStock(ctx context.Context, id uuid.UUID, qty int) (int, error)

	// RemoveDamaged writes off stock: available shrinks (guarded), damaged grows.
	RemoveDamaged(ctx context.Context, id uuid.UUID, qty int) (int, error)

	// UpdatePrices swaps cost and selling price on an active item.
	UpdatePrices(ctx context.Context, id uuid.UUID, cost, sell decimal.Decimal) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrItemNotFound
	}
	return &it, err
}

func (r *itemRepo) FindForShop(ctx context.Context, shopID, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ? AND shop_id = ?", id, shopID).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrItemNotFound
	}
	return &it, err
}

func (r *itemRepo) List(ctx context.Context, shopID uuid.UUID, filter dto.ItemFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("shop_id = ?", shopID)

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("available_qty <= reorder_level")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *itemRepo) SoftDelete(ctx context.Context, shopID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ? AND shop_id = ?", id, shopID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrItemNotFound
	}
	return nil
}

func (r *itemRepo) ListBelowReorder(ctx context.Context, shopID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = true AND available_qty <= reorder_level", shopID).
		Order("available_qty ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListForShop(ctx context.Context, shopID uuid.UUID) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND active = true", shopID).
		Find(&items).Error
	return items, err
}

// ── Ledger primitives ───────────────────────────────────────────────────────

func (r *itemRepo) ReduceStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	var it model.InventoryItem
	res := r.db.WithContext(ctx).Model(&it).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "available_qty"}}}).
		Where("id = ? AND active = true AND available_qty >= ?", id, qty).
		Updates(map[string]interface{}{
			"available_qty": gorm.Expr("available_qty - ?", qty),
			"sold_qty":      gorm.Expr("sold_qty + ?", qty),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, r.classifyGuardMiss(ctx, id, apierror.ErrInsufficientStock)
	}
	return it.AvailableQty, nil
}

func (r *itemRepo) RestoreStock(ctx context.Context, id uuid.UUID, qty int, customerReturn bool) (int, error) {
	updates := map[string]interface{}{
		"available_qty": gorm.Expr("available_qty + ?", qty),
		"sold_qty":      gorm.Expr("sold_qty - ?", qty),
	}
	if customerReturn {
		updates["returned_qty"] = gorm.Expr("returned_qty + ?", qty)
	}

	var it model.InventoryItem
	// sold_qty >= qty holds for any decrement that actually applied, so a
	// guard miss here means the restore does not match a prior decrement.
	res := r.db.WithContext(ctx).Model(&it).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "available_qty"}}}).
		Where("id = ? AND sold_qty >= ?", id, qty).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, r.classifyGuardMiss(ctx, id, apierror.E(apierror.KindConflict, "restore does not match a recorded sale"))
	}
	return it.AvailableQty, nil
}

func (r *itemRepo) AddStock(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	var it model.InventoryItem
	res := r.db.WithContext(ctx).Model(&it).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "available_qty"}}}).
		Where("id = ? AND active = true", id).
		Updates(map[string]interface{}{
			"available_qty": gorm.Expr("available_qty + ?", qty),
			"restocked_qty": gorm.Expr("restocked_qty + ?", qty),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apierror.ErrItemNotFound
	}
	return it.AvailableQty, nil
}

func (r *itemRepo) RemoveDamaged(ctx context.Context, id uuid.UUID, qty int) (int, error) {
	var it model.InventoryItem
	res := r.db.WithContext(ctx).Model(&it).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "available_qty"}}}).
		Where("id = ? AND active = true AND available_qty >= ?", id, qty).
		Updates(map[string]interface{}{
			"available_qty": gorm.Expr("available_qty - ?", qty),
			"damaged_qty":   gorm.Expr("damaged_qty + ?", qty),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, r.classifyGuardMiss(ctx, id, apierror.ErrInsufficientStock)
	}
	return it.AvailableQty, nil
}

func (r *itemRepo) UpdatePrices(ctx context.Context, id uuid.UUID, cost, sell decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ? AND active = true", id).
		Updates(map[string]interface{}{
			"cost_price":    cost,
			"selling_price": sell,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrItemNotFound
	}
	return nil
}

// classifyGuardMiss turns a zero-rows result into the right error: the guard
// failing on an existing row keeps guardErr, a missing row becomes not found.
func (r *itemRepo) classifyGuardMiss(ctx context.Context, id uuid.UUID, guardErr error) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ? AND active = true", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apierror.ErrItemNotFound
	}
	return guardErr
}
