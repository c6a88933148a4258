package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement kinds.
const (
	MovementSale          = "sale"
	MovementRefund        = "refund"
	MovementRestock       = "restock"
	MovementDamage        = "damage"
	MovementCompensation  = "compensation"
	MovementDeleteRestore = "delete_restore"
)

// StockMovement records every quantity change on an item. It is an audit
// trail, not the source of truth: the counters on the item row are.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"not null"` // sale | refund | restock | damage | compensation | delete_restore
	Quantity  int       `gorm:"not null"` // positive = into stock, negative = out
	BeforeQty int       `gorm:"not null"`
	AfterQty  int       `gorm:"not null"`
	Reason    string
	RefID     *uuid.UUID `gorm:"type:uuid"` // sale or intent id when applicable
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

func (StockMovement) TableName() string { return "stock_movements" }
