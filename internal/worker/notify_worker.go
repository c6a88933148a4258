package worker

// notify_worker.go
// Processes notification jobs from QueueNotify. Delivers events to the push
// gateway through the circuit breaker and, for stock alerts, additionally
// emails the shop owner. Undeliverable jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Notification kinds carried in NotifyJobPayload.Kind.
const (
	NotifyLowStock      = "low_stock"
	NotifyOutOfStock    = "out_of_stock"
	NotifySaleCompleted = "sale_completed"
	NotifyCreditOverdue = "credit_overdue"
)

// NotifyJobPayload is the job envelope sent to QueueNotify. Fields are
// populated per kind; amounts travel as fixed-point strings.
type NotifyJobPayload struct {
	Kind         string `json:"kind"`
	ShopID       string `json:"shop_id"`
	ItemID       string `json:"item_id,omitempty"`
	ItemName     string `json:"item_name,omitempty"`
	Available    int    `json:"available,omitempty"`
	ReorderLevel int    `json:"reorder_level,omitempty"`
	SaleID       string `json:"sale_id,omitempty"`
	SaleNumber   int    `json:"sale_number,omitempty"`
	Total        string `json:"total,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	AmountOwed   string `json:"amount_owed,omitempty"`
	DaysOverdue  int    `json:"days_overdue,omitempty"`
}

// NotifyWorker pushes events to the notification gateway. The circuit breaker
// stops it from hammering a downed gateway; jobs arriving while the breaker is
// open go straight to the DLQ.
type NotifyWorker struct {
	push      *infra.PushGatewayClient
	cb        *infra.CircuitBreaker
	mailer    *infra.Mailer
	directory repository.DirectoryRepository
	rdb       *redis.Client
}

func NewNotifyWorker(
	push *infra.PushGatewayClient,
	cb *infra.CircuitBreaker,
	mailer *infra.Mailer,
	directory repository.DirectoryRepository,
	rdb *redis.Client,
) *NotifyWorker {
	return &NotifyWorker{push: push, cb: cb, mailer: mailer, directory: directory, rdb: rdb}
}

// Process delivers one notification: push gateway first, then the owner email
// for stock alerts. Email failures are log-only; push failures go to the DLQ.
func (w *NotifyWorker) Process(ctx context.Context, raw json.RawMessage) {
	var p NotifyJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		return
	}

	event := infra.PushEvent{
		Kind:   p.Kind,
		ShopID: p.ShopID,
	}
	event.Title, event.Body = renderNotification(p)

	cbErr := w.cb.Execute(func() error {
		return w.push.Send(ctx, event)
	})
	if cbErr != nil {
		reason := cbErr.Error()
		if errors.Is(cbErr, infra.ErrCircuitOpen) {
			reason = "push gateway circuit open"
		}
		log.Warn().Str("kind", p.Kind).Str("shop_id", p.ShopID).Err(cbErr).Msg("notify_worker: push delivery failed")
		SendToDLQ(ctx, w.rdb, QueueNotify, p.Kind, raw, reason, 1)
	}

	if p.Kind == NotifyLowStock || p.Kind == NotifyOutOfStock {
		w.emailOwner(ctx, p)
	}
}

func (w *NotifyWorker) emailOwner(ctx context.Context, p NotifyJobPayload) {
	shopID, err := uuid.Parse(p.ShopID)
	if err != nil {
		log.Error().Str("shop_id", p.ShopID).Msg("notify_worker: invalid shop_id")
		return
	}
	owner, err := w.directory.FindOwner(ctx, shopID)
	if err != nil {
		log.Warn().Err(err).Str("shop_id", p.ShopID).Msg("notify_worker: owner lookup failed")
		return
	}
	if owner.Email == "" {
		log.Debug().Str("shop_id", p.ShopID).Msg("notify_worker: owner has no email, skipping alert")
		return
	}
	if err := w.mailer.SendLowStockAlert(owner.Email, p.ItemName, p.Available, p.ReorderLevel); err != nil {
		log.Warn().Err(err).Str("to", owner.Email).Msg("notify_worker: low-stock email failed")
		return
	}
	log.Info().Str("to", owner.Email).Str("item", p.ItemName).Msg("notify_worker: low-stock alert emailed")
}

// renderNotification builds the human-readable title and body per kind.
func renderNotification(p NotifyJobPayload) (title, body string) {
	switch p.Kind {
	case NotifyLowStock:
		return "Low stock: " + p.ItemName,
			fmt.Sprintf("%s is down to %d (reorder level %d)", p.ItemName, p.Available, p.ReorderLevel)
	case NotifyOutOfStock:
		return "Out of stock: " + p.ItemName,
			fmt.Sprintf("%s is sold out", p.ItemName)
	case NotifySaleCompleted:
		return fmt.Sprintf("Sale #%d completed", p.SaleNumber),
			fmt.Sprintf("Total %s", p.Total)
	case NotifyCreditOverdue:
		return "Credit overdue: " + p.CustomerName,
			fmt.Sprintf("%s owes %s, %d days past due", p.CustomerName, p.AmountOwed, p.DaysOverdue)
	default:
		return p.Kind, ""
	}
}
