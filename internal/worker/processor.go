package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"colorchecker-service/internal/correction"
	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
	"colorchecker-service/internal/storage"
)

type JobRepo interface {
	SetProcessing(ctx context.Context, id string) error
	SetDone(ctx context.Context, id string, methodUsed entity.Method) error
	SetError(ctx context.Context, id string, errText string) error
}

type Processor struct {
	repo  JobRepo
	store storage.Store
}

func NewProcessor(repo JobRepo, store storage.Store) *Processor {
	return &Processor{repo: repo, store: store}
}

// Process drives one dequeued message through the correction pipeline.
// Delivery is at-least-once, so the first act is the idempotency guard: when
// the output artifact already exists a previous (possibly concurrent)
// invocation finished the job, and the record is left untouched. Any failure
// after the processing transition is persisted to the record before it is
// returned, so a visible error state always precedes propagation.
func (p *Processor) Process(ctx context.Context, payload []byte) error {
	start := time.Now()

	var msg entity.QueueMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("[worker] payload unmarshal error=%v", err)
		return err
	}
	if msg.JobID == "" || msg.InputBlob == "" || msg.OutputBlob == "" {
		return errors.New("queue payload is missing required fields")
	}

	exists, err := p.store.Exists(ctx, storage.ContainerOutputs, msg.OutputBlob)
	if err != nil {
		return fmt.Errorf("check output existence: %w", err)
	}
	if exists {
		log.Printf("[worker] job_id=%s output already present, skipping", msg.JobID)
		return nil
	}

	if err := p.repo.SetProcessing(ctx, msg.JobID); err != nil {
		log.Printf("[worker] job_id=%s update_status=processing error=%v", msg.JobID, err)
		return err
	}

	method, procErr := p.correct(ctx, &msg)
	if procErr != nil {
		_ = p.repo.SetError(ctx, msg.JobID, procErr.Error())

		log.Printf("[worker] job_id=%s status=error duration_ms=%d error=%v",
			msg.JobID, time.Since(start).Milliseconds(), procErr,
		)
		return procErr
	}

	if err := p.repo.SetDone(ctx, msg.JobID, method); err != nil {
		log.Printf("[worker] job_id=%s set_done error=%v", msg.JobID, err)
		return err
	}

	log.Printf("[worker] job_id=%s status=done method=%s duration_ms=%d",
		msg.JobID, method, time.Since(start).Milliseconds(),
	)
	return nil
}

// correct runs the extraction-independent pipeline: the swatches arrive
// pre-extracted in the message.
func (p *Processor) correct(ctx context.Context, msg *entity.QueueMessage) (entity.Method, error) {
	if err := msg.Swatches.Validate(); err != nil {
		return "", err
	}

	raw, err := p.store.Get(ctx, storage.ContainerUploads, msg.InputBlob)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	img, err := imaging.Decode(raw)
	if err != nil {
		return "", err
	}

	method := msg.Method
	if !method.Concrete() {
		method = correction.Resolve(method, msg.Swatches)
	}

	corrected, err := correction.Apply(img, msg.Swatches, method)
	if err != nil {
		return "", err
	}
	corrected = correction.ApplySpotShift(corrected, msg.SpotShift)

	format := imaging.NormalizeFormat(msg.Format)
	encoded, err := imaging.Encode(corrected, format, msg.Quality)
	if err != nil {
		return "", err
	}

	if err := p.store.Put(ctx, storage.ContainerOutputs, msg.OutputBlob, encoded, format); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return method, nil
}
