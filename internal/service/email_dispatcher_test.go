package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/pkg/mail"
	"campus-events/backend/pkg/queue"
)

func TestEmailDispatcher_Submit(t *testing.T) {
	q := queue.NewInMemory(4)
	d := NewEmailDispatcher(q, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg := mail.Message{
		To:      []string{"asha@uni.edu"},
		Subject: "Registration Confirmed: Tech Fest",
		Text:    "see you there",
		Inline:  []mail.Inline{{CID: "qr", Filename: "qr.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
	}
	d.Submit(ctx, msg)
	d.Submit(ctx, mail.Message{Subject: "nobody"})

	if q.Len() != 1 {
		t.Fatalf("expected one queued job, have %d", q.Len())
	}

	ch, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	select {
	case job := <-ch:
		if job.Type != EmailJobType {
			t.Errorf("unexpected job type %q", job.Type)
		}
		got, err := DecodeEmailJob(job.Body)
		if err != nil {
			t.Fatalf("DecodeEmailJob failed: %v", err)
		}
		if got.Subject != msg.Subject || got.To[0] != "asha@uni.edu" || len(got.Inline) != 1 || string(got.Inline[0].Data) != string(msg.Inline[0].Data) {
			t.Errorf("job does not carry the message: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestEmailJob_Errors(t *testing.T) {
	if _, err := EncodeEmailJob(mail.Message{Subject: "x"}); !errors.Is(err, mail.ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
	if _, err := DecodeEmailJob([]byte("not json")); err == nil {
		t.Error("garbage body should not decode")
	}
}

func TestEmailDispatcher_QueueFull(t *testing.T) {
	q := queue.NewInMemory(1)
	d := NewEmailDispatcher(q, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		d.Submit(context.Background(), mail.Message{To: []string{"a@uni.edu"}})
		d.Submit(context.Background(), mail.Message{To: []string{"b@uni.edu"}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	if q.Len() != 1 {
		t.Errorf("the second job should be dropped, queue holds %d", q.Len())
	}
}

func TestEmailDispatcher_CancelledRequestStillEnqueues(t *testing.T) {
	q := queue.NewInMemory(2)
	d := NewEmailDispatcher(q, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Submit(ctx, mail.Message{To: []string{"a@uni.edu"}, Subject: "Registration Confirmed: Tech Fest"})

	if q.Len() != 1 {
		t.Errorf("a finished request should not drop its email, queue holds %d", q.Len())
	}
}
