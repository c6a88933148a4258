package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the point of sale. PayCredit opens a credit
// ledger on the sale; the others settle immediately.
const (
	PayCash     = "cash"
	PayCard     = "card"
	PayTransfer = "transfer"
	PayCredit   = "credit"
)

// SaleRecord is the immutable outcome of a completed sale transaction. It is
// written exactly once, after all stock decrements succeeded. Afterwards only
// the credit ledger fields (via payment append) and the refund fields (via
// the one-shot refund claim) may change; lines are never touched.
type SaleRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleNumber int       `gorm:"uniqueIndex;not null"`
	StaffID    uuid.UUID `gorm:"type:uuid;not null;index"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalProfit decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PaymentMethod string `gorm:"type:varchar(20);not null"`

	// Credit ledger. For non-credit sales AmountPaid==TotalAmount,
	// AmountOwed==0 and CreditStatus==paid from the start. Invariants held
	// at every point: AmountPaid+AmountOwed==TotalAmount and
	// CreditStatus==paid iff AmountOwed==0.
	IsCredit      bool            `gorm:"not null;default:false"`
	CreditStatus  CreditStatus    `gorm:"type:varchar(10);not null;default:'paid'"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountOwed    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate       *time.Time
	CustomerName  string
	CustomerPhone string `gorm:"index"`

	Refunded     bool `gorm:"not null;default:false"`
	RefundReason *string
	RefundedBy   *uuid.UUID `gorm:"type:uuid"`
	RefundedAt   *time.Time

	CreatedAt time.Time `gorm:"index"`

	Lines    []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments []CreditPayment `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (SaleRecord) TableName() string { return "sales" }

// SaleLine is a point-in-time snapshot of one item on the sale. Catalog
// edits after the fact never reach it.
type SaleLine struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name     string `gorm:"not null"`
	Category string
	Quantity int `gorm:"not null"`

	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountPct  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineProfit   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (SaleLine) TableName() string { return "sale_lines" }

// CreditPayment is one installment against a credit sale. Rows are append
// only; the running totals live on the sale and are updated in the same
// storage transaction that inserts the row.
type CreditPayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method     string          `gorm:"type:varchar(20);not null"`
	ReceivedBy uuid.UUID       `gorm:"type:uuid;not null"`
	PaidAt     time.Time       `gorm:"not null"`
}

func (CreditPayment) TableName() string { return "credit_payments" }
