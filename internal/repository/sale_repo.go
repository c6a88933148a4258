package repository

import (
	"context"
	"errors"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository is the persistence contract for sale records. A sale is
// written once with its lines; afterwards only the refund claim and the
// credit ledger append touch it. Lines are never updated.
type SaleRepository interface {
	Create(ctx context.Context, s *model.SaleRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SaleRecord, error)
	FindForShop(ctx context.Context, shopID, id uuid.UUID) (*model.SaleRecord, error)
	// FindByNumber lets the recovery pass tell a completed transaction whose
	// intent survived from an interrupted one.
	FindByNumber(ctx context.Context, number int) (*model.SaleRecord, error)
	NextSaleNumber(ctx context.Context) (int, error)
	List(ctx context.Context, shopID uuid.UUID, filter dto.SaleFilter) ([]model.SaleRecord, int64, error)

	// ClaimRefund flips the refunded flag exactly once. Zero rows affected
	// means another caller already claimed it.
	ClaimRefund(ctx context.Context, id, by uuid.UUID, reason string, at time.Time) error

	// AppendPayment inserts the payment row and moves the sale's running
	// totals in one storage transaction on the single sale aggregate. The
	// UPDATE re-checks the ledger preconditions so a racing payment loses
	// with zero rows instead of overpaying.
	AppendPayment(ctx context.Context, saleID uuid.UUID, p *model.CreditPayment) error

	Delete(ctx context.Context, id uuid.UUID) error
	ListOverdue(ctx context.Context, shopID uuid.UUID, asOf time.Time) ([]model.SaleRecord, error)
	CustomerHistory(ctx context.Context, shopID uuid.UUID, phone string) ([]model.SaleRecord, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, s *model.SaleRecord) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SaleRecord, error) {
	var s model.SaleRecord
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Payments").First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrSaleNotFound
	}
	return &s, err
}

func (r *saleRepo) FindForShop(ctx context.Context, shopID, id uuid.UUID) (*model.SaleRecord, error) {
	var s model.SaleRecord
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Payments").
		Where("id = ? AND shop_id = ?", id, shopID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrSaleNotFound
	}
	return &s, err
}

func (r *saleRepo) FindByNumber(ctx context.Context, number int) (*model.SaleRecord, error) {
	var s model.SaleRecord
	err := r.db.WithContext(ctx).Where("sale_number = ?", number).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrSaleNotFound
	}
	return &s, err
}

func (r *saleRepo) NextSaleNumber(ctx context.Context) (int, error) {
	// PostgreSQL sequence keeps numbers unique under concurrency; gaps from
	// abandoned transactions are acceptable.
	var num int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('sales_number_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) List(ctx context.Context, shopID uuid.UUID, filter dto.SaleFilter) ([]model.SaleRecord, int64, error) {
	var sales []model.SaleRecord
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.SaleRecord{}).Where("shop_id = ?", shopID)

	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}
	if filter.Method != "" {
		q = q.Where("payment_method = ?", filter.Method)
	}
	if filter.CreditStatus != "" {
		q = q.Where("is_credit = true AND credit_status = ?", filter.CreditStatus)
	}
	switch filter.Refunded {
	case "true":
		q = q.Where("refunded = true")
	case "false":
		q = q.Where("refunded = false")
	}
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		q = q.Where("(customer_name ILIKE ? OR customer_phone ILIKE ? OR CAST(sale_number AS TEXT) = ?)",
			pat, pat, filter.Search)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lines").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) ClaimRefund(ctx context.Context, id, by uuid.UUID, reason string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.SaleRecord{}).
		Where("id = ? AND refunded = false", id).
		Updates(map[string]interface{}{
			"refunded":      true,
			"refund_reason": reason,
			"refunded_by":   by,
			"refunded_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrAlreadyRefunded
	}
	return nil
}

func (r *saleRepo) AppendPayment(ctx context.Context, saleID uuid.UUID, p *model.CreditPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SaleRecord{}).
			Where("id = ? AND is_credit = true AND refunded = false AND credit_status <> ? AND amount_owed >= ?",
				saleID, model.CreditPaid, p.Amount).
			Updates(map[string]interface{}{
				"amount_paid":   gorm.Expr("amount_paid + ?", p.Amount),
				"amount_owed":   gorm.Expr("amount_owed - ?", p.Amount),
				"credit_status": gorm.Expr("CASE WHEN amount_owed - ? = 0 THEN 'paid' ELSE 'partial' END", p.Amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apierror.ErrStaleLedger
		}
		return tx.Create(p).Error
	})
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Lines and payments go with the sale via FK cascade.
	return r.db.WithContext(ctx).Delete(&model.SaleRecord{}, "id = ?", id).Error
}

func (r *saleRepo) ListOverdue(ctx context.Context, shopID uuid.UUID, asOf time.Time) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND is_credit = true AND refunded = false AND amount_owed > 0 AND due_date IS NOT NULL AND due_date < ?",
			shopID, asOf).
		Order("due_date ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CustomerHistory(ctx context.Context, shopID uuid.UUID, phone string) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.WithContext(ctx).Preload("Payments").
		Where("shop_id = ? AND is_credit = true AND customer_phone = ?", shopID, phone).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}
