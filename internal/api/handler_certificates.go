package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"housepoints/internal/domain"
)

func (h *Handler) SubmitCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body certificatePayloadJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	cert, err := h.certs.Submit(r.Context(), p, body.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, certificateToAPI(cert))
}

func (h *Handler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cert, err := h.certs.Get(r.Context(), p, chi.URLParam(r, "certificateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certificateToAPI(cert))
}

func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filter := domain.CertificateFilter{Page: pageFromQuery(r)}
	if v := r.URL.Query().Get("owner_id"); v != "" {
		filter.OwnerID = &v
	}
	if v := r.URL.Query().Get("house_id"); v != "" {
		filter.HouseID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.CertificateStatus(v)
		filter.Status = &status
	}

	certs, total, err := h.certs.List(r.Context(), p, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]certificateJSON, len(certs))
	for i := range certs {
		data[i] = certificateToAPI(&certs[i])
	}
	npt := domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total)
	writeJSON(w, http.StatusOK, listResponse{Data: data, NextPageToken: npt})
}

// PendingReview returns the certificates awaiting the caller's decision:
// student submissions of the coordinator's house, or faculty submissions
// for admins.
func (h *Handler) PendingReview(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page := pageFromQuery(r)
	certs, total, err := h.certs.PendingReview(r.Context(), p, page)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]certificateJSON, len(certs))
	for i := range certs {
		data[i] = certificateToAPI(&certs[i])
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, listResponse{Data: data, NextPageToken: npt})
}

func (h *Handler) EditCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body certificatePayloadJSON
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	cert, err := h.certs.Edit(r.Context(), p, chi.URLParam(r, "certificateID"), body.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certificateToAPI(cert))
}

func (h *Handler) DeleteCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.certs.Delete(r.Context(), p, chi.URLParam(r, "certificateID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApproveCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// Body is optional; {"points": n} overrides the policy award.
	var body struct {
		Points *int `json:"points"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	cert, err := h.certs.Approve(r.Context(), p, chi.URLParam(r, "certificateID"), body.Points)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certificateToAPI(cert))
}

func (h *Handler) RejectCertificate(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Comment *string `json:"comment"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}

	cert, err := h.certs.Reject(r.Context(), p, chi.URLParam(r, "certificateID"), body.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certificateToAPI(cert))
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.certs.Comment(r.Context(), p, chi.URLParam(r, "certificateID"), body.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentToAPI(*comment))
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.certs.ListComments(r.Context(), p, chi.URLParam(r, "certificateID"))
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]commentJSON, len(comments))
	for i, c := range comments {
		data[i] = commentToAPI(c)
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}
