package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// request logger, after RequestID
	r.Use(RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/colorchecker", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/correct", h.Correct)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/sas", h.IssueUploadURL)
		r.Post("/submit", h.SubmitJob)
		r.Get("/status/{jobId}", h.JobStatus)
		r.Get("/result/{jobId}", h.JobResult)
	})

	r.Route("/blobs", func(r chi.Router) {
		r.Put("/{container}/*", h.PutBlob)
		r.Get("/{container}/*", h.GetBlob)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
