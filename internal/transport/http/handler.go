package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"colorchecker-service/internal/chart"
	"colorchecker-service/internal/correction"
	"colorchecker-service/internal/entity"
	"colorchecker-service/internal/imaging"
	"colorchecker-service/internal/repository/postgresql"
	"colorchecker-service/internal/service"
	"colorchecker-service/internal/storage"
)

const (
	uploadURLTTL   = 2 * time.Hour
	downloadURLTTL = 1 * time.Hour
)

type Handler struct {
	jobSvc *service.JobService
	store  storage.Store
	signer *storage.Signer
}

func NewHandler(jobSvc *service.JobService, store storage.Store, signer *storage.Signer) *Handler {
	return &Handler{jobSvc: jobSvc, store: store, signer: signer}
}

type analyzeDTO struct {
	Image string `json:"image"`
}

type correctDTO struct {
	Image     string            `json:"image"`
	Swatches  entity.SwatchSet  `json:"swatches"`
	Method    string            `json:"method"`
	Format    string            `json:"format"`
	Quality   float64           `json:"quality"`
	SpotShift *entity.SpotShift `json:"spotShift,omitempty"`
}

type correctResp struct {
	Image      string        `json:"image"`
	MethodUsed entity.Method `json:"methodUsed"`
}

type sasDTO struct {
	Filename string `json:"filename"`
	JobID    string `json:"jobId"`
}

type sasResp struct {
	JobID     string `json:"jobId"`
	UploadURL string `json:"uploadUrl"`
	BlobName  string `json:"blobName"`
	ExpiresAt string `json:"expiresAt"`
}

type submitDTO struct {
	JobID     string            `json:"jobId"`
	InputBlob string            `json:"inputBlob"`
	Swatches  entity.SwatchSet  `json:"swatches"`
	Method    string            `json:"method"`
	Format    string            `json:"format"`
	Quality   float64           `json:"quality"`
	SpotShift *entity.SpotShift `json:"spotShift,omitempty"`
}

type submitResp struct {
	JobID  string           `json:"jobId"`
	Status entity.JobStatus `json:"status"`
}

type resultResp struct {
	JobID       string `json:"jobId"`
	DownloadURL string `json:"downloadUrl"`
	OutputBlob  string `json:"outputBlob"`
}

// Analyze godoc
// @Summary Analyze a chart photograph
// @Description Locates the reference chart, measures its swatches and scores every correction method.
// @Tags colorchecker
// @Accept json
// @Produce json
// @Param request body analyzeDTO true "base64 image"
// @Success 200 {object} correction.Report
// @Failure 400 {object} apiError
// @Router /colorchecker/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var dto analyzeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	img, err := imaging.DecodeBase64(dto.Image)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	swatches, err := chart.Extract(img)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, correction.Analyze(swatches))
}

// Correct godoc
// @Summary Correct an image synchronously
// @Description Applies the chosen (or auto-resolved) correction method plus optional Lab spot shift.
// @Tags colorchecker
// @Accept json
// @Produce json
// @Param request body correctDTO true "image, swatches and options"
// @Success 200 {object} correctResp
// @Failure 400 {object} apiError
// @Router /colorchecker/correct [post]
func (h *Handler) Correct(w http.ResponseWriter, r *http.Request) {
	var dto correctDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	img, err := imaging.DecodeBase64(dto.Image)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(dto.Swatches) == 0 {
		writeErr(w, http.StatusBadRequest, "calibration swatches are missing")
		return
	}
	if err := dto.Swatches.Validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	method, err := entity.ParseMethod(dto.Method)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	quality := dto.Quality
	if quality <= 0 {
		quality = 0.92
	}

	method = correction.Resolve(method, dto.Swatches)
	corrected, err := correction.Apply(img, dto.Swatches, method)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	corrected = correction.ApplySpotShift(corrected, dto.SpotShift)

	encoded, err := imaging.EncodeBase64(corrected, dto.Format, quality)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, correctResp{Image: encoded, MethodUsed: method})
}

// IssueUploadURL godoc
// @Summary Issue a scoped upload URL
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body sasDTO true "filename and optional job id"
// @Success 200 {object} sasResp
// @Failure 400 {object} apiError
// @Router /jobs/sas [post]
func (h *Handler) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	var dto sasDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	filename := sanitizeFilename(dto.Filename)
	if filename == "" {
		filename = "image.jpg"
	}
	jobID := dto.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	blobName := jobID + "/" + filename

	uploadURL, expires := h.signer.SignedURL(storage.ContainerUploads, blobName, storage.PermWrite, uploadURLTTL)
	writeJSON(w, http.StatusOK, sasResp{
		JobID:     jobID,
		UploadURL: uploadURL,
		BlobName:  blobName,
		ExpiresAt: expires.Format(time.RFC3339),
	})
}

// SubmitJob godoc
// @Summary Submit an asynchronous correction job
// @Description Persists a queued job record and enqueues a message for the worker.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body submitDTO true "job payload"
// @Success 200 {object} submitResp
// @Failure 400 {object} apiError
// @Router /jobs/submit [post]
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var dto submitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	method, err := entity.ParseMethod(dto.Method)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSvc.Submit(r.Context(), service.SubmitRequest{
		JobID:     dto.JobID,
		InputBlob: dto.InputBlob,
		Method:    method,
		Format:    dto.Format,
		Quality:   dto.Quality,
		Swatches:  dto.Swatches,
		SpotShift: dto.SpotShift,
	})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitResp{JobID: job.ID, Status: job.Status})
}

// JobStatus godoc
// @Summary Get job record by id
// @Tags jobs
// @Produce json
// @Param jobId path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Router /jobs/status/{jobId} [get]
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	job, err := h.jobSvc.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, postgresql.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "job not found")
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// JobResult godoc
// @Summary Get a download URL for a finished job
// @Tags jobs
// @Produce json
// @Param jobId path string true "job id"
// @Success 200 {object} resultResp
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/result/{jobId} [get]
func (h *Handler) JobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	job, err := h.jobSvc.Result(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, postgresql.ErrNotFound):
			writeErr(w, http.StatusNotFound, "job not found")
		case errors.Is(err, service.ErrJobNotReady):
			writeErr(w, http.StatusConflict, "job is not completed")
		case errors.Is(err, service.ErrMissingOutput):
			writeErr(w, http.StatusNotFound, "output blob not found")
		default:
			writeErr(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	downloadURL, _ := h.signer.SignedURL(storage.ContainerOutputs, job.OutputBlob, storage.PermRead, downloadURLTTL)
	writeJSON(w, http.StatusOK, resultResp{
		JobID:       job.ID,
		DownloadURL: downloadURL,
		OutputBlob:  job.OutputBlob,
	})
}

// sanitizeFilename strips directories, replaces spaces and drops anything
// outside [alnum - _ .].
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '-' || ch == '_' || ch == '.':
			b.WriteRune(ch)
		}
	}
	out := b.String()
	if out == "." || out == ".." {
		return ""
	}
	return out
}
