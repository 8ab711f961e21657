package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"housepoints/internal/artifact"
	"housepoints/internal/domain"
)

// UploadArtifact accepts a multipart upload ("file" field), stores the blob,
// and returns the opaque ref plus content hashes for the submit payload.
func (h *Handler) UploadArtifact(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, domain.ErrValidation("multipart upload with a 'file' field is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.ErrValidation("multipart upload with a 'file' field is required"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, domain.ErrValidation("read upload: %v", err))
		return
	}
	if len(data) == 0 {
		writeError(w, domain.ErrValidation("uploaded file is empty"))
		return
	}

	ref, err := h.artifacts.Store(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}

	hashes := artifact.Hash(data)
	writeJSON(w, http.StatusCreated, map[string]string{
		"artifact_ref": ref,
		"md5":          hashes.MD5,
		"sha256":       hashes.SHA256,
	})
}

// FetchArtifact streams a stored blob back to the caller.
func (h *Handler) FetchArtifact(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	data, err := h.artifacts.Fetch(r.Context(), chi.URLParam(r, "artifactRef"))
	if err != nil {
		writeError(w, domain.ErrNotFound("artifact not found"))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
