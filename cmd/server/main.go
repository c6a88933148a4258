package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/config"
	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"
	"github.com/say-lem/Ventree-Backend-sub001/internal/router"
	"github.com/say-lem/Ventree-Backend-sub001/internal/service"
	"github.com/say-lem/Ventree-Backend-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Composition root ─────────────────────────────────────────────────────
	// Everything is wired here once: repositories, services, async workers,
	// and background passes all share the same instances.
	pushClient := infra.NewPushGatewayClient(cfg.PushGatewayURL)
	gatewayCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)

	itemRepo := repository.NewItemRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db)

	// Worker dispatcher — the async side of the service hooks
	dispatcher := worker.NewDispatcher(rdb)

	saleSvc := service.NewSaleService(
		saleRepo, itemRepo, intentRepo, directoryRepo, movementRepo,
		dispatcher, dispatcher, dispatcher,
		service.SaleOptions{
			RefundWindow: time.Duration(cfg.RefundWindowDays) * 24 * time.Hour,
			CreditTerm:   time.Duration(cfg.CreditTermDays) * 24 * time.Hour,
		},
	)
	creditSvc := service.NewCreditService(saleRepo, directoryRepo, dispatcher, dispatcher, nil)
	itemSvc := service.NewItemService(itemRepo, priceHistoryRepo, dispatcher)
	stockSvc := service.NewStockService(itemRepo, movementRepo, dispatcher, nil)

	// Async workers consuming the Redis queues
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		Notify:  worker.NewNotifyWorker(pushClient, gatewayCB, mailer, directoryRepo, rdb),
		Audit:   worker.NewAuditWorker(auditRepo, rdb),
		Receipt: worker.NewReceiptWorker(saleRepo, mailer, rdb, cfg.PDFStoragePath),
	})

	// One synchronous recovery sweep before taking traffic: a crash mid-sale
	// must not leave stock decremented with no sale record.
	staleAge := time.Duration(cfg.IntentStaleMinutes) * time.Minute
	if n, err := saleSvc.RecoverStaleIntents(ctx, staleAge); err != nil {
		log.Error().Err(err).Msg("startup intent recovery failed")
	} else if n > 0 {
		log.Warn().Int("recovered", n).Msg("startup intent recovery compensated stale sales")
	}

	// Background passes
	worker.StartRecoveryCron(ctx, worker.RecoveryCronConfig{
		Sales:    saleSvc,
		Interval: staleAge,
		StaleAge: staleAge,
	})
	worker.StartOverdueCron(ctx, worker.OverdueCronConfig{
		Directory: directoryRepo,
		Credit:    creditSvc,
		Interval:  time.Duration(cfg.OverdueScanHours) * time.Hour,
	})
	worker.StartReconcileCron(ctx, worker.ReconcileCronConfig{
		Directory: directoryRepo,
		Stock:     stockSvc,
		Interval:  time.Duration(cfg.ReconcileScanMinutes) * time.Minute,
	})

	r := router.New(cfg, db, rdb, router.Deps{
		Sales:     saleSvc,
		Credit:    creditSvc,
		Items:     itemSvc,
		Stock:     stockSvc,
		ItemRepo:  itemRepo,
		Movements: movementRepo,
		Audit:     auditRepo,
		GatewayCB: gatewayCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Ventree backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
