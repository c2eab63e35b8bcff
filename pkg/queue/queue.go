package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var (
	// ErrClosed the queue no longer accepts messages.
	ErrClosed = errors.New("queue closed")
	// ErrFull the in-memory buffer has no free slot.
	ErrFull = errors.New("queue full")
)

// Message is one unit of background work.
type Message struct {
	Type string
	Body []byte
}

// Queue is the abstraction over the job backends.
type Queue interface {
	Publish(ctx context.Context, msg Message) error
	Consume(ctx context.Context) (<-chan Message, error)
}

// ────────────────────── In-memory ──────────────────────

// InMemory is a bounded channel queue for single-process deployments and tests.
type InMemory struct {
	ch chan Message
}

// NewInMemory creates a queue holding at most size pending messages.
func NewInMemory(size int) *InMemory {
	if size <= 0 {
		size = 1
	}
	return &InMemory{ch: make(chan Message, size)}
}

// Publish enqueues msg without waiting. A full buffer yields ErrFull.
func (q *InMemory) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrFull
	}
}

// Consume returns a channel that yields messages until ctx is cancelled.
// Several consumers may share one InMemory; each message is delivered once.
func (q *InMemory) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case msg := <-q.ch:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Len number of buffered messages.
func (q *InMemory) Len() int {
	return len(q.ch)
}

// ────────────────────── Redis ──────────────────────

const defaultRedisKey = "campus:jobs"

// RedisQueue is a Redis list queue (LPUSH producers, BRPOP consumers).
type RedisQueue struct {
	client *goredis.Client
	key    string
	block  time.Duration
}

// NewRedisQueue builds a queue on key.
func NewRedisQueue(client *goredis.Client, key string) *RedisQueue {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisQueue{client: client, key: key, block: 5 * time.Second}
}

// Publish enqueues msg.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	return q.client.LPush(ctx, q.key, serialize(msg)).Err()
}

// Consume streams messages with BRPOP until ctx is cancelled.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, q.block, q.key).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if !errors.Is(err, goredis.Nil) {
					// backend hiccup; avoid a hot loop
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
						return
					}
				}
				continue
			}
			if len(res) != 2 {
				continue
			}
			select {
			case out <- deserialize(res[1]):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// serialize stores a message as Type|Body.
func serialize(msg Message) string {
	return msg.Type + "|" + string(msg.Body)
}

func deserialize(s string) Message {
	typ, body, ok := strings.Cut(s, "|")
	if !ok {
		return Message{Body: []byte(s)}
	}
	return Message{Type: typ, Body: []byte(body)}
}
