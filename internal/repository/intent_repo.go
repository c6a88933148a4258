package repository

import (
	"context"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntentRepository persists the write-ahead intents of the sale engine.
// An intent exists only for the window between the first stock decrement and
// the sale record landing; ListStale feeds the recovery pass that rolls back
// whatever that window left behind after a crash.
type IntentRepository interface {
	Create(ctx context.Context, in *model.SaleIntent) error
	MarkStepApplied(ctx context.Context, stepID uuid.UUID) error
	// MarkStepReverted flips a step back after its decrement has been
	// compensated, so a later recovery sweep will not restore it twice.
	MarkStepReverted(ctx context.Context, stepID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]model.SaleIntent, error)
}

type intentRepo struct{ db *gorm.DB }

func NewIntentRepository(db *gorm.DB) IntentRepository { return &intentRepo{db: db} }

func (r *intentRepo) Create(ctx context.Context, in *model.SaleIntent) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *intentRepo) MarkStepApplied(ctx context.Context, stepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.IntentStep{}).
		Where("id = ?", stepID).
		Update("applied", true).Error
}

func (r *intentRepo) MarkStepReverted(ctx context.Context, stepID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.IntentStep{}).
		Where("id = ?", stepID).
		Update("applied", false).Error
}

func (r *intentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Steps go with the intent via FK cascade.
	return r.db.WithContext(ctx).Delete(&model.SaleIntent{}, "id = ?", id).Error
}

func (r *intentRepo) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]model.SaleIntent, error) {
	var intents []model.SaleIntent
	err := r.db.WithContext(ctx).Preload("Steps").
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&intents).Error
	return intents, err
}
