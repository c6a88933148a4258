package worker

// reconcile_cron.go
// Background goroutine that periodically checks every verified shop's stock
// counters against the movement identity and reports drift. Report-only: the
// counters are never corrected automatically.

import (
	"context"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/rs/zerolog/log"
)

// ReconcileCronConfig holds all dependencies for the reconciliation goroutine.
type ReconcileCronConfig struct {
	Directory repository.DirectoryRepository
	Stock     service.StockService
	Interval  time.Duration
}

// StartReconcileCron launches a background goroutine that ticks every
// Interval and reconciles each verified shop's inventory counters.
func StartReconcileCron(ctx context.Context, cfg ReconcileCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				reconcileShops(ctx, cfg)
			}
		}
	}()
}

func reconcileShops(ctx context.Context, cfg ReconcileCronConfig) {
	shops, err := cfg.Directory.ListVerifiedShops(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: failed to list shops")
		return
	}

	for i := range shops {
		report, err := cfg.Stock.Reconcile(ctx, shops[i].ID)
		if err != nil {
			log.Error().Err(err).Str("shop_id", shops[i].ID.String()).Msg("reconcile_cron: reconcile failed")
			continue
		}
		if len(report.Drifts) > 0 {
			log.Warn().
				Str("shop_id", shops[i].ID.String()).
				Int("drifts", len(report.Drifts)).
				Msg("reconcile_cron: stock drift detected")
		}
	}
}
