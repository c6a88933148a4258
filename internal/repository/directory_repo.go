package repository

import (
	"context"
	"errors"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryRepository resolves staff and shops from the directory tables.
// Those tables are owned by the identity service; this backend reads them
// for authorization and never writes (cmd/seed is the one exception, for
// local development).
type DirectoryRepository interface {
	FindStaffByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	ShopExistsAndVerified(ctx context.Context, shopID uuid.UUID) (bool, error)
	FindShopByID(ctx context.Context, shopID uuid.UUID) (*model.Shop, error)
	FindOwner(ctx context.Context, shopID uuid.UUID) (*model.Staff, error)
	ListVerifiedShops(ctx context.Context) ([]model.Shop, error)
}

type directoryRepo struct{ db *gorm.DB }

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository { return &directoryRepo{db: db} }

func (r *directoryRepo) FindStaffByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	var st model.Staff
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrStaffNotFound
	}
	return &st, err
}

func (r *directoryRepo) ShopExistsAndVerified(ctx context.Context, shopID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).
		Where("id = ? AND verified = true", shopID).
		Count(&n).Error
	return n > 0, err
}

func (r *directoryRepo) FindShopByID(ctx context.Context, shopID uuid.UUID) (*model.Shop, error) {
	var sh model.Shop
	err := r.db.WithContext(ctx).First(&sh, "id = ?", shopID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrShopNotVerified
	}
	return &sh, err
}

func (r *directoryRepo) ListVerifiedShops(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Where("verified = true").Find(&shops).Error
	return shops, err
}

func (r *directoryRepo) FindOwner(ctx context.Context, shopID uuid.UUID) (*model.Staff, error) {
	var st model.Staff
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND role = ? AND active = true", shopID, model.RoleOwner).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrStaffNotFound
	}
	return &st, err
}
