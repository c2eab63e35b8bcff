// Command worker delivers queued email jobs from the Redis queue, separately
// from the API process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"campus-events/backend/config"
	"campus-events/backend/internal/worker"
	applogger "campus-events/backend/pkg/logger"
	"campus-events/backend/pkg/mail"
	"campus-events/backend/pkg/queue"
	"campus-events/backend/pkg/redis"
)

func main() {
	cfg, err := config.Load(os.Getenv("CAMPUS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Queue.Backend != "redis" {
		logger.Fatal("standalone worker needs queue.backend=redis; the memory queue is served by the API process")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	jobs := queue.NewRedisQueue(rdb.Raw(), cfg.Queue.Key)
	sender := mail.NewSender(&cfg.Mail, logger)

	w := worker.NewEmailWorker(jobs, sender, cfg.Queue.Workers, nil, logger)
	if err := w.Run(ctx); err != nil {
		logger.Fatal("email worker failed", zap.Error(err))
	}
}
