package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	QueueNotify  = "jobs:notify"
	QueueAudit   = "jobs:audit"
	QueueReceipt = "jobs:receipt"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler consumes one dequeued job payload. Implementations own their own
// retry and DLQ policy; Process never returns an error because there is no
// caller left to handle it.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage)
}

// Handlers maps each queue to its consumer.
type Handlers struct {
	Notify  Handler
	Audit   Handler
	Receipt Handler
}

// Dispatcher enqueues async jobs into Redis lists. It is the transport behind
// the service-layer hooks: sale and stock code talk to the interfaces in
// internal/service and never touch Redis directly. The worker pool dequeues
// via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

var (
	_ service.Notifier     = (*Dispatcher)(nil)
	_ service.AuditSink    = (*Dispatcher)(nil)
	_ service.ReceiptQueue = (*Dispatcher)(nil)
)

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) OnLowStock(ctx context.Context, shopID, itemID uuid.UUID, itemName string, available, reorderLevel int) error {
	return d.enqueue(ctx, QueueNotify, NotifyLowStock, NotifyJobPayload{
		Kind:         NotifyLowStock,
		ShopID:       shopID.String(),
		ItemID:       itemID.String(),
		ItemName:     itemName,
		Available:    available,
		ReorderLevel: reorderLevel,
	})
}

func (d *Dispatcher) OnOutOfStock(ctx context.Context, shopID, itemID uuid.UUID, itemName string) error {
	return d.enqueue(ctx, QueueNotify, NotifyOutOfStock, NotifyJobPayload{
		Kind:     NotifyOutOfStock,
		ShopID:   shopID.String(),
		ItemID:   itemID.String(),
		ItemName: itemName,
	})
}

func (d *Dispatcher) OnSaleCompleted(ctx context.Context, shopID, saleID uuid.UUID, saleNumber int, total decimal.Decimal) error {
	return d.enqueue(ctx, QueueNotify, NotifySaleCompleted, NotifyJobPayload{
		Kind:       NotifySaleCompleted,
		ShopID:     shopID.String(),
		SaleID:     saleID.String(),
		SaleNumber: saleNumber,
		Total:      total.StringFixed(2),
	})
}

func (d *Dispatcher) OnCreditOverdue(ctx context.Context, shopID, saleID uuid.UUID, customerName string, owed decimal.Decimal, daysOverdue int) error {
	return d.enqueue(ctx, QueueNotify, NotifyCreditOverdue, NotifyJobPayload{
		Kind:         NotifyCreditOverdue,
		ShopID:       shopID.String(),
		SaleID:       saleID.String(),
		CustomerName: customerName,
		AmountOwed:   owed.StringFixed(2),
		DaysOverdue:  daysOverdue,
	})
}

func (d *Dispatcher) LogEvent(ctx context.Context, action string, shopID uuid.UUID, actorID, entityID *uuid.UUID, detail string) error {
	p := AuditJobPayload{Action: action, ShopID: shopID.String(), Detail: detail}
	if actorID != nil {
		s := actorID.String()
		p.ActorID = &s
	}
	if entityID != nil {
		s := entityID.String()
		p.EntityID = &s
	}
	return d.enqueue(ctx, QueueAudit, "audit", p)
}

func (d *Dispatcher) EnqueueReceipt(ctx context.Context, saleID uuid.UUID, email *string) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", ReceiptJobPayload{
		SaleID: saleID.String(),
		Email:  email,
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming all three queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	// Receipts first: a customer is waiting on them, notifications are not.
	queues := []string{QueueReceipt, QueueNotify, QueueAudit}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var h Handler
	switch queue {
	case QueueNotify:
		h = handlers.Notify
	case QueueAudit:
		h = handlers.Audit
	case QueueReceipt:
		h = handlers.Receipt
	}
	if h == nil {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered for queue")
		return
	}
	h.Process(ctx, job.Payload)
}
