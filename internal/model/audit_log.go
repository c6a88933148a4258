package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded through the sink.
const (
	AuditSaleCreated     = "sale_created"
	AuditSaleRefunded    = "sale_refunded"
	AuditSaleDeleted     = "sale_deleted"
	AuditPaymentRecorded = "credit_payment_recorded"
	AuditStockRestocked  = "stock_restocked"
	AuditStockDamaged    = "stock_damaged"
	AuditPriceChanged    = "price_changed"
	AuditStockDrift      = "stock_drift_detected"
)

// AuditLog is one business event, persisted asynchronously by the audit
// worker. Emission is fire-and-forget from the caller's point of view.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Action    string     `gorm:"not null;index"`
	ShopID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	EntityID  *uuid.UUID `gorm:"type:uuid"`
	Detail    string
	CreatedAt time.Time `gorm:"index"`
}
