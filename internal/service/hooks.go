package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier delivers shop-facing events to the external notification system.
// Implementations must be safe for concurrent use. Callers fire these after
// the state change has committed and treat failures as log-only: a lost
// notification never rolls back a sale.
type Notifier interface {
	OnLowStock(ctx context.Context, shopID, itemID uuid.UUID, itemName string, available, reorderLevel int) error
	OnOutOfStock(ctx context.Context, shopID, itemID uuid.UUID, itemName string) error
	OnSaleCompleted(ctx context.Context, shopID, saleID uuid.UUID, saleNumber int, total decimal.Decimal) error
	OnCreditOverdue(ctx context.Context, shopID, saleID uuid.UUID, customerName string, owed decimal.Decimal, daysOverdue int) error
}

// AuditSink records business events for the audit trail. Fire-and-forget:
// errors are logged by the caller and never surface to the client.
type AuditSink interface {
	LogEvent(ctx context.Context, action string, shopID uuid.UUID, actorID, entityID *uuid.UUID, detail string) error
}

// ReceiptQueue hands completed sales to the receipt pipeline (PDF, optional
// email). Same fire-and-forget contract as Notifier.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, saleID uuid.UUID, email *string) error
}
