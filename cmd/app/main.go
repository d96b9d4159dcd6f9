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
	"strings"
	"syscall"
	"time"

	"alcocontrol/internal/application"
	"alcocontrol/internal/config"
	pg "alcocontrol/internal/infra/db/postgres"
	"alcocontrol/internal/infra/logging"
	"alcocontrol/internal/infra/metrics"
	red "alcocontrol/internal/infra/redis"
	"alcocontrol/internal/infra/sched"
	tele "alcocontrol/internal/infra/telegram"
	"alcocontrol/internal/infra/web"
	"alcocontrol/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.RunMigrations(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepoCacheDecorator(pg.NewPostgresUserRepo(pool), redisClient, cfg.Redis.TTL)
	drinkRepo := pg.NewPostgresDrinkRepo(pool)
	soberRepo := pg.NewPostgresSoberPeriodRepo(pool)
	goalRepo := pg.NewPostgresGoalRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, tm, logger)
	drinkUC := usecase.NewDrinkUseCase(drinkRepo, userRepo, logger)
	soberUC := usecase.NewSoberUseCase(soberRepo, userRepo, tm, logger)
	goalUC := usecase.NewGoalUseCase(goalRepo, userRepo, logger)
	statsUC := usecase.NewStatsUseCase(drinkRepo, soberRepo, userRepo, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(userUC, drinkUC, soberUC, goalUC, statsUC)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	srv := web.NewServer(userUC, drinkUC, soberUC, goalUC, statsUC, auth, cfg.Admin.Password, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: srv.Router(cfg.API.RequestTimeout),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Goal expiry worker ----
	worker := sched.NewGoalExpiryWorker(cfg.Scheduler.GoalExpiryInterval, goalUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
