package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/pkg/mail"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/queue"
)

// EmailJobType queue message type carrying a JSON-encoded mail.Message.
const EmailJobType = "email"

// enqueueTimeout caps a single publish to the job backend.
const enqueueTimeout = 2 * time.Second

// EmailDispatcher hands outbound mail to the background worker.
// Submit never waits on delivery or on a full queue, and never fails the caller.
// A job dropped at enqueue is logged and counted.
type EmailDispatcher interface {
	Submit(ctx context.Context, msg mail.Message)
}

type queueDispatcher struct {
	jobs    queue.Queue
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewEmailDispatcher creates an EmailDispatcher publishing to jobs.
func NewEmailDispatcher(jobs queue.Queue, m *metrics.Metrics, logger *zap.Logger) EmailDispatcher {
	return &queueDispatcher{jobs: jobs, metrics: m, logger: logger}
}

func (d *queueDispatcher) Submit(ctx context.Context, msg mail.Message) {
	body, err := EncodeEmailJob(msg)
	if err != nil {
		d.metrics.Email("enqueue_failed")
		d.logger.Warn("encode email job failed", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	// the request may end before the job backend answers
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()
	if err := d.jobs.Publish(pubCtx, queue.Message{Type: EmailJobType, Body: body}); err != nil {
		d.metrics.Email("enqueue_failed")
		d.logger.Warn("enqueue email failed",
			zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	d.metrics.Email("queued")
}

// EncodeEmailJob serializes msg as a queue body.
func EncodeEmailJob(msg mail.Message) ([]byte, error) {
	if len(msg.To) == 0 {
		return nil, mail.ErrNoRecipients
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode email job: %w", err)
	}
	return b, nil
}

// DecodeEmailJob parses a queue body produced by EncodeEmailJob.
func DecodeEmailJob(body []byte) (mail.Message, error) {
	var msg mail.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return mail.Message{}, fmt.Errorf("decode email job: %w", err)
	}
	return msg, nil
}
