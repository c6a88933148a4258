package worker

// recovery_cron.go
// Background goroutine that sweeps stale sale intents left behind by crashed
// or interrupted sale transactions and rolls their stock decrements back.
// main also runs one sweep synchronously at startup so a restart cleans up
// before taking traffic.

import (
	"context"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/service"

	"github.com/rs/zerolog/log"
)

// RecoveryCronConfig holds all dependencies for the intent recovery goroutine.
type RecoveryCronConfig struct {
	Sales    service.SaleService
	Interval time.Duration
	StaleAge time.Duration
}

// StartRecoveryCron launches a background goroutine that ticks every Interval
// and compensates intents older than StaleAge.
func StartRecoveryCron(ctx context.Context, cfg RecoveryCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("recovery_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("recovery_cron: shutting down")
				return
			case <-ticker.C:
				n, err := cfg.Sales.RecoverStaleIntents(ctx, cfg.StaleAge)
				if err != nil {
					log.Error().Err(err).Msg("recovery_cron: sweep failed")
					continue
				}
				if n > 0 {
					log.Warn().Int("recovered", n).Msg("recovery_cron: stale intents compensated")
				}
			}
		}
	}()
}
