package model

import (
	"time"

	"github.com/google/uuid"
)

// SaleIntent is the write-ahead record for a sale's stock decrements. It is
// created before the first decrement and deleted after the sale record is
// persisted, so any intent that survives a crash marks an interrupted
// transaction whose applied steps must be rolled back by the recovery pass.
type SaleIntent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleNumber int       `gorm:"not null"`
	StaffID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"index"`

	Steps []IntentStep `gorm:"foreignKey:IntentID;constraint:OnDelete:CASCADE"`
}

func (SaleIntent) TableName() string { return "sale_intents" }

// IntentStep is one planned decrement. Applied flips to true right after the
// conditional update succeeds, never before, so recovery restores exactly
// the decrements that actually landed.
type IntentStep struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IntentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null"`
	Quantity int       `gorm:"not null"`
	Applied  bool      `gorm:"not null;default:false"`
}

func (IntentStep) TableName() string { return "sale_intent_steps" }
