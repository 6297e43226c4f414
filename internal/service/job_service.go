package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
)

var (
	// ErrJobNotReady is returned when a result is requested while the job is
	// still queued or processing. Distinct from a missing record.
	ErrJobNotReady = errors.New("job is not completed")

	// ErrMissingOutput flags a done job without an output reference, which is
	// an internal-consistency fault rather than a caller mistake.
	ErrMissingOutput = errors.New("job output reference missing")
)

// Repository port (implementation: postgresql.JobRepository).
type JobRepository interface {
	Upsert(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
}

// Narrow queue port for submission only.
type JobQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

type JobService struct {
	repo  JobRepository
	queue JobQueue
}

func NewJobService(repo JobRepository, queue JobQueue) *JobService {
	return &JobService{repo: repo, queue: queue}
}

const defaultQuality = 0.92

type SubmitRequest struct {
	JobID     string
	InputBlob string
	Method    entity.Method
	Format    string
	Quality   float64
	Swatches  entity.SwatchSet
	SpotShift *entity.SpotShift
}

// Submit persists the job record in state queued and enqueues a message
// carrying everything the worker needs. The output location is a
// deterministic function of job id and format.
func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (*entity.Job, error) {
	if req.InputBlob == "" {
		return nil, errors.New("inputBlob is required")
	}
	if len(req.Swatches) == 0 {
		return nil, errors.New("swatches is required")
	}
	if err := req.Swatches.Validate(); err != nil {
		return nil, err
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	method := req.Method
	if method == "" {
		method = entity.DefaultMethod
	}
	format := imaging.NormalizeFormat(req.Format)
	quality := req.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	now := time.Now().UTC()
	job := &entity.Job{
		ID:         jobID,
		Status:     entity.StatusQueued,
		InputBlob:  req.InputBlob,
		OutputBlob: entity.OutputBlobName(jobID, format),
		Format:     format,
		Quality:    quality,
		Method:     method,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, job); err != nil {
		return nil, fmt.Errorf("persist job record: %w", err)
	}

	payload, err := json.Marshal(entity.QueueMessage{
		JobID:      job.ID,
		InputBlob:  job.InputBlob,
		OutputBlob: job.OutputBlob,
		Format:     job.Format,
		Quality:    job.Quality,
		Method:     job.Method,
		Swatches:   req.Swatches,
		SpotShift:  req.SpotShift,
	})
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, payload); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// Status returns the record verbatim; a missing record surfaces as the
// repository's not-found error.
func (s *JobService) Status(ctx context.Context, id string) (*entity.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// Result returns the record of a finished job. It distinguishes a missing
// record, an unfinished job (ErrJobNotReady), and a done job missing its
// output reference (ErrMissingOutput).
func (s *JobService) Result(ctx context.Context, id string) (*entity.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.StatusDone {
		return nil, ErrJobNotReady
	}
	if job.OutputBlob == "" {
		return nil, ErrMissingOutput
	}
	return job, nil
}
