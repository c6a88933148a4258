package repository

import (
	"context"

	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	Create(ctx context.Context, h *model.PriceHistory) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.PriceHistory, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) Create(ctx context.Context, h *model.PriceHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *priceHistoryRepo) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.PriceHistory, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var entries []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
