package worker

// audit_worker.go
// Persists audit events from QueueAudit. Services fire events through the
// AuditSink hook without blocking the request path; this worker writes the
// rows. A failed insert is retried, then parked in the DLQ so the trail can
// be replayed by hand.

import (
	"context"
	"encoding/json"

	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuditJobPayload is the job envelope sent to QueueAudit.
type AuditJobPayload struct {
	Action   string  `json:"action"`
	ShopID   string  `json:"shop_id"`
	ActorID  *string `json:"actor_id,omitempty"`
	EntityID *string `json:"entity_id,omitempty"`
	Detail   string  `json:"detail,omitempty"`
}

type AuditWorker struct {
	audit repository.AuditRepository
	rdb   *redis.Client
}

func NewAuditWorker(audit repository.AuditRepository, rdb *redis.Client) *AuditWorker {
	return &AuditWorker{audit: audit, rdb: rdb}
}

func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) {
	var p AuditJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		return
	}

	shopID, err := uuid.Parse(p.ShopID)
	if err != nil {
		log.Error().Str("shop_id", p.ShopID).Msg("audit_worker: invalid shop_id")
		return
	}
	entry := &model.AuditLog{
		Action: p.Action,
		ShopID: shopID,
		Detail: p.Detail,
	}
	if p.ActorID != nil {
		if id, perr := uuid.Parse(*p.ActorID); perr == nil {
			entry.ActorID = &id
		}
	}
	if p.EntityID != nil {
		if id, perr := uuid.Parse(*p.EntityID); perr == nil {
			entry.EntityID = &id
		}
	}

	err = withRetry(ctx, 3, func(attempt int) error {
		if ierr := w.audit.Create(ctx, entry); ierr != nil {
			log.Warn().Err(ierr).Int("attempt", attempt+1).Str("action", p.Action).Msg("audit_worker: insert failed, retrying")
			return ierr
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("action", p.Action).Msg("audit_worker: insert failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueAudit, p.Action, raw, err.Error(), 3)
	}
}
