package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"colorchecker-service/internal/entity"
)

var ErrNotFound = errors.New("not found")

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Upsert creates or overwrites the record for job.ID. Submit is the only
// caller and the only operation allowed to (re)create a record in state
// queued.
func (r *JobRepository) Upsert(ctx context.Context, job *entity.Job) error {
	const q = `
INSERT INTO jobs (id, status, input_blob, output_blob, format, quality, method, method_used, error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULL, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	status      = EXCLUDED.status,
	input_blob  = EXCLUDED.input_blob,
	output_blob = EXCLUDED.output_blob,
	format      = EXCLUDED.format,
	quality     = EXCLUDED.quality,
	method      = EXCLUDED.method,
	method_used = EXCLUDED.method_used,
	error       = NULL,
	created_at  = EXCLUDED.created_at,
	updated_at  = EXCLUDED.updated_at;
`
	_, err := r.pool.Exec(ctx, q,
		job.ID, string(job.Status), job.InputBlob, job.OutputBlob,
		job.Format, job.Quality, string(job.Method), string(job.MethodUsed),
		job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	const q = `
SELECT id, status, input_blob, output_blob, format, quality, method, method_used, error, created_at, updated_at
FROM jobs
WHERE id = $1;
`

	var (
		job        entity.Job
		statusText string
		methodText string
		usedText   *string
		errText    *string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&job.ID,
		&statusText,
		&job.InputBlob,
		&job.OutputBlob,
		&job.Format,
		&job.Quality,
		&methodText,
		&usedText, // NULL => nil
		&errText,  // NULL => nil
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	job.Status = entity.JobStatus(statusText)
	job.Method = entity.Method(methodText)
	if usedText != nil {
		job.MethodUsed = entity.Method(*usedText)
	}
	job.Error = errText
	job.CreatedAt = createdAt
	job.UpdatedAt = updatedAt

	return &job, nil
}

// SetProcessing transitions the record to processing, leaving every other
// field untouched.
func (r *JobRepository) SetProcessing(ctx context.Context, id string) error {
	const q = `UPDATE jobs SET status='processing', updated_at=now() WHERE id=$1;`

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDone marks the job done, recording the resolved method.
func (r *JobRepository) SetDone(ctx context.Context, id string, methodUsed entity.Method) error {
	const q = `UPDATE jobs SET status='done', method_used=$2, error=NULL, updated_at=now() WHERE id=$1;`

	tag, err := r.pool.Exec(ctx, q, id, string(methodUsed))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) SetError(ctx context.Context, id string, errText string) error {
	const q = `UPDATE jobs SET status='error', error=$2, updated_at=now() WHERE id=$1;`

	tag, err := r.pool.Exec(ctx, q, id, errText)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
