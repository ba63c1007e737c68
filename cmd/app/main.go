// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledvelvet/doorcheck/internal/config"
	pg "github.com/ledvelvet/doorcheck/internal/infra/db/postgres"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
	"github.com/ledvelvet/doorcheck/internal/infra/metrics"
	"github.com/ledvelvet/doorcheck/internal/infra/notify"
	red "github.com/ledvelvet/doorcheck/internal/infra/redis"
	"github.com/ledvelvet/doorcheck/internal/infra/sched"
	"github.com/ledvelvet/doorcheck/internal/infra/web"
	"github.com/ledvelvet/doorcheck/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Postgres ----
	poolSize := int32(cfg.Database.PoolSize)
	if poolSize <= 0 {
		poolSize = 10
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, poolSize)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	eventRepo := pg.NewEventRepo(pool)
	memberRepo := pg.NewMemberRepoCacheDecorator(pg.NewMemberRepo(pool), redisClient, cfg.Redis.TTL)
	cardRepo := pg.NewMemberCardRepo(pool)
	membershipRepo := pg.NewMembershipRepo(pool)
	checkinRepo := pg.NewCheckinRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	checkinUC := usecase.NewCheckinUseCase(eventRepo, memberRepo, cardRepo, membershipRepo, checkinRepo, tm, logger)
	eventUC := usecase.NewEventUseCase(eventRepo, logger)
	memberUC := usecase.NewMemberUseCase(memberRepo, cardRepo, membershipRepo, tm, logger)
	membershipUC := usecase.NewMembershipUseCase(membershipRepo, logger)
	statsUC := usecase.NewStatsUseCase(memberRepo, membershipRepo, checkinRepo, logger)

	// ---- Staff notifier ----
	notifier, err := notify.NewTelegramNotifier(cfg.Notify, logger)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	// ---- HTTP server ----
	metrics.MustRegister()
	auth := web.NewAuthManager(cfg.Admin.JWTKey, !cfg.Runtime.Dev, "", cfg.Admin.TokenTTL)
	srv := web.NewServer(checkinUC, eventUC, memberUC, membershipUC, statsUC, auth, cfg.Admin.Key, cfg.Door, rateLimiter, notifier, logger)

	router := srv.Router()
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      web.Chain(router, web.Timeout(cfg.HTTP.RequestTimeout)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, membershipUC, statsUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Pool stats gauge ----
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}
}
