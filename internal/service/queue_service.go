package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Queue interface {
	Enqueue(ctx context.Context, payload []byte) error
	ClaimBlocking(ctx context.Context, timeout time.Duration) ([]byte, error)
	Ack(ctx context.Context, payload []byte) error
	RequeueStale(ctx context.Context, max int64) (int64, error)
}

// redisQueue implements a reliable FIFO queue using Redis lists.
// Claim: BRPOPLPUSH queue -> processing
// Ack:   LREM from processing
// Delivery is at-least-once: a claim lost to a crashed worker stays in the
// processing list until the reaper moves it back.
type redisQueue struct {
	rdb           *redis.Client
	queueKey      string
	processingKey string
}

func NewRedisQueue(rdb *redis.Client, queueKey, processingKey string) Queue {
	return &redisQueue{rdb: rdb, queueKey: queueKey, processingKey: processingKey}
}

func (q *redisQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.rdb.LPush(ctx, q.queueKey, payload).Err()
}

// ClaimBlocking waits up to timeout for a message, atomically moving it into
// the processing list. timeout <= 0 blocks forever, in short slots so context
// cancellation still gets a look-in.
func (q *redisQueue) ClaimBlocking(ctx context.Context, timeout time.Duration) ([]byte, error) {
	forever := timeout <= 0
	deadline := time.Now().Add(timeout)

	slot := 1 * time.Second
	if !forever && timeout < slot {
		slot = timeout
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wait := slot
		if !forever {
			remain := time.Until(deadline)
			if remain <= 0 {
				return nil, redis.Nil
			}
			if remain < wait {
				wait = remain
			}
		}

		payload, err := q.rdb.BRPopLPush(ctx, q.queueKey, q.processingKey, wait).Result()
		if err == nil {
			return []byte(payload), nil
		}
		if errors.Is(err, redis.Nil) {
			// nothing arrived during this slot
			continue
		}
		return nil, err
	}
}

func (q *redisQueue) Ack(ctx context.Context, payload []byte) error {
	return q.rdb.LRem(ctx, q.processingKey, 1, payload).Err()
}

// RequeueStale moves claimed-but-unacked messages back to the queue, at most
// max per call. It is a simple reaper run periodically by the worker binary.
func (q *redisQueue) RequeueStale(ctx context.Context, max int64) (int64, error) {
	var moved int64

	for i := int64(0); i < max; i++ {
		_, err := q.rdb.RPopLPush(ctx, q.processingKey, q.queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return moved, err
		}
		moved++
	}

	return moved, nil
}
