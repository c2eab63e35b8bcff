package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/mail"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/queue"
)

// EmailWorker delivers queued email jobs. Failed sends are logged and dropped.
type EmailWorker struct {
	jobs        queue.Queue
	sender      mail.Sender
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewEmailWorker creates an EmailWorker running concurrency consumers (at least one).
func NewEmailWorker(jobs queue.Queue, sender mail.Sender, concurrency int, m *metrics.Metrics, logger *zap.Logger) *EmailWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &EmailWorker{
		jobs:        jobs,
		sender:      sender,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger.Named("email_worker"),
	}
}

// Run consumes until ctx is cancelled and every consumer has drained.
func (w *EmailWorker) Run(ctx context.Context) error {
	messages, err := w.jobs.Consume(ctx)
	if err != nil {
		return err
	}

	w.logger.Info("email worker started", zap.Int("concurrency", w.concurrency))

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range messages {
				w.handle(ctx, msg)
			}
		}()
	}
	wg.Wait()

	w.logger.Info("email worker stopped")
	return nil
}

func (w *EmailWorker) handle(ctx context.Context, msg queue.Message) {
	if msg.Type != service.EmailJobType {
		w.logger.Warn("skipping unknown job type", zap.String("type", msg.Type))
		return
	}

	email, err := service.DecodeEmailJob(msg.Body)
	if err != nil {
		w.metrics.Email("failed")
		w.logger.Error("decode email job failed", zap.Error(err))
		return
	}

	// Delivery outlives a shutdown signal; the message is already off the queue.
	if err := w.sender.Send(context.WithoutCancel(ctx), email); err != nil {
		w.metrics.Email("failed")
		w.logger.Error("send email failed",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err),
		)
		return
	}

	w.metrics.Email("sent")
	w.logger.Debug("email sent", zap.Strings("to", email.To), zap.String("subject", email.Subject))
}
