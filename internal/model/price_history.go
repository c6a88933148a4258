package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory records each price change on an item. Rows are immutable and
// never deleted; the current prices live on the item.
type PriceHistory struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	Reason     string
	CreatedAt  time.Time
}

func (PriceHistory) TableName() string { return "price_history" }
