package worker

// overdue_cron.go
// Background goroutine that periodically walks every verified shop and fires
// overdue notifications for unpaid credit sales past their due date.

import (
	"context"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/rs/zerolog/log"
)

// OverdueCronConfig holds all dependencies for the overdue scan goroutine.
type OverdueCronConfig struct {
	Directory repository.DirectoryRepository
	Credit    service.CreditService
	Interval  time.Duration
}

// StartOverdueCron launches a background goroutine that ticks every Interval,
// scanning each verified shop for overdue credit. It respects the context for
// graceful shutdown.
func StartOverdueCron(ctx context.Context, cfg OverdueCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("overdue_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-ticker.C:
				scanOverdue(ctx, cfg)
			}
		}
	}()
}

func scanOverdue(ctx context.Context, cfg OverdueCronConfig) {
	shops, err := cfg.Directory.ListVerifiedShops(ctx)
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: failed to list shops")
		return
	}

	total := 0
	for i := range shops {
		n, err := cfg.Credit.ScanOverdue(ctx, shops[i].ID)
		if err != nil {
			log.Error().Err(err).Str("shop_id", shops[i].ID.String()).Msg("overdue_cron: scan failed")
			continue
		}
		total += n
	}
	if total > 0 {
		log.Info().Int("overdue_sales", total).Int("shops", len(shops)).Msg("overdue_cron: scan complete")
	}
}
