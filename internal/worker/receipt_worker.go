package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt. Renders the PDF receipt for a
// completed sale and, when the customer left an email, sends it as an
// attachment. SMTP gets exponential backoff (max 3 attempts); exhausted jobs
// go to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID string  `json:"sale_id"`
	Email  *string `json:"email,omitempty"`
}

type ReceiptWorker struct {
	sales          repository.SaleRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReceiptWorker(
	sales repository.SaleRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, mailer: mailer, rdb: rdb, pdfStoragePath: pdfStoragePath}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale with lines and payments
//  3. Render the PDF receipt
//  4. Email it when the customer left an address, with backoff
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, fmt.Sprintf("pdf: %v", err), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.Email == nil || *payload.Email == "" {
		return
	}

	to := *payload.Email
	subject := fmt.Sprintf("Receipt for sale #%d", sale.SaleNumber)
	body := fmt.Sprintf("Thank you for your purchase.\nTotal: %s", sale.TotalAmount.StringFixed(2))

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		if err := w.mailer.SendReceipt(to, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", to).
				Msg("receipt_worker: email attempt failed, retrying")
			return err
		}
		return nil
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", to).Msg("receipt_worker: email failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, fmt.Sprintf("smtp: %v", sendErr), 3)
		return
	}
	log.Info().Str("to", to).Str("sale_id", payload.SaleID).Msg("receipt_worker: receipt sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
