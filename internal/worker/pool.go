package worker

import (
	"context"
	"log"
	"time"

	"colorchecker-service/internal/service"
)

type Pool struct {
	queue      service.Queue
	processor  *Processor
	workers    int
	claimDelay time.Duration
}

func NewPool(queue service.Queue, processor *Processor, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		queue:      queue,
		processor:  processor,
		workers:    workers,
		claimDelay: 5 * time.Second,
	}
}

func (p *Pool) Run(ctx context.Context) {
	log.Printf("worker pool started: workers=%d", p.workers)

	msgCh := make(chan []byte)

	for i := 0; i < p.workers; i++ {
		go func(n int) {
			for payload := range msgCh {
				err := p.processor.Process(ctx, payload)
				if err != nil {
					log.Printf("[worker-%d] process error: %v", n, err)
				}

				// Ack regardless: the record is already done/error (or the
				// failure happened before any record update, in which case
				// the reaper returns the claim to the queue after a crash).
				if ackErr := p.queue.Ack(ctx, payload); ackErr != nil {
					log.Printf("[worker-%d] ack error: %v", n, ackErr)
				}
			}
		}(i + 1)
	}

	// Listener: atomically claim from queue -> processing.
	for {
		select {
		case <-ctx.Done():
			close(msgCh)
			log.Println("worker pool stopped")
			return
		default:
			payload, err := p.queue.ClaimBlocking(ctx, p.claimDelay)
			if err != nil {
				// timeout/redis.Nil/ctx cancel, not fatal
				continue
			}
			select {
			case msgCh <- payload:
			case <-ctx.Done():
				close(msgCh)
				return
			}
		}
	}
}
