package repository

import (
	"context"

	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFilter defines filters for listing audit events.
type AuditFilter struct {
	Action string
	From   string // YYYY-MM-DD
	To     string
	Page   int
	Limit  int
}

// AuditRepository stores the business event trail. Writes arrive from the
// audit worker only; the HTTP surface just lists.
type AuditRepository interface {
	Create(ctx context.Context, e *model.AuditLog) error
	List(ctx context.Context, shopID uuid.UUID, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) Create(ctx context.Context, e *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) List(ctx context.Context, shopID uuid.UUID, filter AuditFilter) ([]model.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{}).Where("shop_id = ?", shopID)
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var events []model.AuditLog
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}
