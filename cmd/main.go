package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"onevsone/voting/internal/config"
	"onevsone/voting/internal/feed"
	"onevsone/voting/internal/handler"
	"onevsone/voting/internal/model"
	"onevsone/voting/internal/repository"
	"onevsone/voting/internal/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize tally feed broker (Redis or in-memory)
	var broker feed.Broker
	switch cfg.Feed.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		broker = feed.NewRedisBroker(redisClient, cfg.Feed.Channel)
		logger.Info("using Redis tally feed broker")
	case "memory":
		broker = feed.NewMemoryBroker()
		logger.Info("using in-memory tally feed broker")
	default:
		logger.Fatal("unknown feed backend", zap.String("backend", cfg.Feed.Backend))
	}
	defer broker.Close()

	// 6. Initialize repositories
	tokenRepo := repository.NewPGTokenRepository(db)
	playerRepo := repository.NewPGPlayerRepository(db)
	voteRepo := repository.NewPGVoteRepository(db)

	// 7. Initialize services
	votingService := service.NewVotingService(tokenRepo, playerRepo, voteRepo, broker, logger)
	playerService := service.NewPlayerService(playerRepo)
	tokenService := service.NewTokenService(tokenRepo, cfg.Voting.TokenBytes)

	// 8. Start the live tally fan-out
	tally := feed.NewTally(broker, votingService.Results, logger)
	if err := tally.Start(context.Background()); err != nil {
		logger.Fatal("failed to start tally feed", zap.Error(err))
	}
	defer tally.Stop()

	// 9. Initialize handlers
	votingHandler := handler.NewVotingHandler(votingService, playerService, tally)
	adminHandler := handler.NewAdminHandler(playerService, tokenService)
	qrHandler := handler.NewQRHandler(cfg.Voting.BaseURL, cfg.Voting.QRSize)

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, votingHandler, adminHandler, qrHandler)

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
