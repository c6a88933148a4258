package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a sellable stock line owned by exactly one shop.
// AvailableQty never goes below zero: every decrement happens through a
// conditional update at the storage layer, not a read-then-write.
type InventoryItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"index;not null"`
	Category     string          `gorm:"not null"`
	Unit         string          `gorm:"not null;default:'unit'"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Quantity counters. available = initial + restocked - sold - damaged
	// is the identity the reconciliation pass checks per item.
	AvailableQty int `gorm:"not null;default:0"`
	InitialQty   int `gorm:"not null;default:0"`
	RestockedQty int `gorm:"not null;default:0"`
	SoldQty      int `gorm:"not null;default:0"`
	DamagedQty   int `gorm:"not null;default:0"`
	// ReturnedQty counts units that came back via refunds; restores already
	// decrement SoldQty, so it stays out of the identity.
	ReturnedQty int `gorm:"not null;default:0"`

	ReorderLevel int  `gorm:"not null;default:5"`
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (InventoryItem) TableName() string { return "items" }
