package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/config"
	"campus-events/backend/internal/api/handler"
	"campus-events/backend/internal/api/router"
	"campus-events/backend/internal/repository"
	"campus-events/backend/internal/service"
	"campus-events/backend/internal/worker"
	"campus-events/backend/pkg/database"
	"campus-events/backend/pkg/jwt"
	applogger "campus-events/backend/pkg/logger"
	"campus-events/backend/pkg/mail"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/queue"
	"campus-events/backend/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("CAMPUS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("queue_backend", cfg.Queue.Backend),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. redis (optional unless it backs the queue)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		if cfg.Queue.Backend == "redis" {
			logger.Fatal("redis is required for the redis queue backend", zap.Error(err))
		}
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. job queue
	var jobs queue.Queue
	if cfg.Queue.Backend == "redis" {
		jobs = queue.NewRedisQueue(rdb.Raw(), cfg.Queue.Key)
	} else {
		jobs = queue.NewInMemory(cfg.Queue.Buffer)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// 6. wiring: repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, jobs, m, logger)

	if err := svc.User.EnsureAdmin(context.Background(), cfg.Bootstrap); err != nil {
		logger.Fatal("bootstrap admin failed", zap.Error(err))
	}

	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, jwtMgr, rdb, m, logger)

	// 7. in-process email worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup
	workerWG.Add(1)
	go func() {
		defer workerWG.Done()
		sender := mail.NewSender(&cfg.Mail, logger)
		w := worker.NewEmailWorker(jobs, sender, cfg.Queue.Workers, m, logger)
		if err := w.Run(workerCtx); err != nil {
			logger.Error("email worker exited", zap.Error(err))
		}
	}()

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	stopWorker()
	workerWG.Wait()

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
