package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrEmpty is returned by Dequeue when nothing arrived before its poll timeout.
	ErrEmpty     = errors.New("notify: queue empty")
	ErrQueueFull = errors.New("notify: queue full")
)

// Delivery asks the worker to mail one persisted notification.
type Delivery struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

type Queue interface {
	Enqueue(ctx context.Context, d Delivery) error
	Dequeue(ctx context.Context) (Delivery, error)
}

// MemoryQueue is an in-process queue for single-instance deployments and tests.
type MemoryQueue struct {
	ch   chan Delivery
	poll time.Duration
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Delivery, size), poll: time.Second}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, d Delivery) error {
	select {
	case q.ch <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Delivery, error) {
	t := time.NewTimer(q.poll)
	defer t.Stop()

	select {
	case d := <-q.ch:
		return d, nil
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	case <-t.C:
		return Delivery{}, ErrEmpty
	}
}

func (q *MemoryQueue) Len() int { return len(q.ch) }

const outboxKey = "notify:outbox"

// RedisQueue keeps deliveries in a redis list so they survive restarts and are
// shared between API instances.
type RedisQueue struct {
	rdb  *redis.Client
	key  string
	poll time.Duration
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: outboxKey, poll: 2 * time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, d Delivery) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, b).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Delivery, error) {
	res, err := q.rdb.BRPop(ctx, q.poll, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return Delivery{}, ErrEmpty
	}
	if err != nil {
		if ctx.Err() != nil {
			return Delivery{}, ctx.Err()
		}
		return Delivery{}, err
	}

	// BRPOP answers [key, value]
	if len(res) != 2 {
		return Delivery{}, fmt.Errorf("notify: unexpected BRPOP reply %v", res)
	}
	var d Delivery
	if err := json.Unmarshal([]byte(res[1]), &d); err != nil {
		return Delivery{}, fmt.Errorf("notify: decode delivery: %w", err)
	}
	return d, nil
}
