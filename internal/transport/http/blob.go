package httptransport

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"colorchecker-service/internal/storage"
)

// Blob routes serve the scoped URLs issued by the signer. Every request must
// carry a valid signature for its exact container/key/permission scope.

func (h *Handler) verifyBlobRequest(r *http.Request, perm string) (container, key string, err error) {
	container = chi.URLParam(r, "container")
	if container != storage.ContainerUploads && container != storage.ContainerOutputs {
		return "", "", errors.New("unknown container")
	}
	key = chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		return "", "", errors.New("invalid object key")
	}

	q := r.URL.Query()
	if err := h.signer.Verify(container, key, perm, q.Get("exp"), q.Get("sig")); err != nil {
		return "", "", err
	}
	return container, key, nil
}

// PutBlob handles signed client uploads.
func (h *Handler) PutBlob(w http.ResponseWriter, r *http.Request) {
	container, key, err := h.verifyBlobRequest(r, storage.PermWrite)
	if err != nil {
		writeErr(w, http.StatusForbidden, err.Error())
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "read body")
		return
	}
	if err := h.store.Put(r.Context(), container, key, data, r.Header.Get("Content-Type")); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetBlob handles signed client downloads.
func (h *Handler) GetBlob(w http.ResponseWriter, r *http.Request) {
	container, key, err := h.verifyBlobRequest(r, storage.PermRead)
	if err != nil {
		writeErr(w, http.StatusForbidden, err.Error())
		return
	}

	data, err := h.store.Get(r.Context(), container, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "object not found")
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
