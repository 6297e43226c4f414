package entity

import (
	"time"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// Terminal reports whether a job in this status may never transition again.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

type Job struct {
	ID         string    `json:"jobId"`
	Status     JobStatus `json:"status"`
	InputBlob  string    `json:"inputBlob"`
	OutputBlob string    `json:"outputBlob"`
	Format     string    `json:"format"`
	Quality    float64   `json:"quality"`
	Method     Method    `json:"method"`
	MethodUsed Method    `json:"methodUsed,omitempty"`
	Error      *string   `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OutputBlobName computes the deterministic output key for a job.
// JPEG is the fallback for any non-PNG format.
func OutputBlobName(jobID, format string) string {
	ext := "jpg"
	if format == "image/png" {
		ext = "png"
	}
	return jobID + "/result." + ext
}
