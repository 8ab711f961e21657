package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"housepoints/internal/domain"
)

// === Principals ===

func (h *Handler) CreatePrincipal(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Name       string  `json:"name"`
		Role       string  `json:"role"`
		HouseID    *string `json:"house_id"`
		ExternalID *string `json:"external_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.principals.Create(r.Context(), p, &domain.CreatePrincipalRequest{
		Name:       body.Name,
		Role:       domain.Role(body.Role),
		HouseID:    body.HouseID,
		ExternalID: body.ExternalID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, principalToAPI(created))
}

func (h *Handler) ListPrincipals(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page := pageFromQuery(r)
	principals, total, err := h.principals.List(r.Context(), p, page)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]principalJSON, len(principals))
	for i := range principals {
		data[i] = principalToAPI(&principals[i])
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, listResponse{Data: data, NextPageToken: npt})
}

// WhoAmI returns the caller's own principal record.
func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, principalToAPI(p))
}

func (h *Handler) DeactivatePrincipal(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.principals.Deactivate(r.Context(), p, chi.URLParam(r, "principalID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GrantPermissions(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Permissions []string `json:"permissions"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	perms := make([]domain.Permission, len(body.Permissions))
	for i, s := range body.Permissions {
		perms[i] = domain.Permission(s)
	}
	if err := h.principals.GrantPermissions(r.Context(), p, chi.URLParam(r, "principalID"), perms); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === Houses ===

func (h *Handler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	house, err := h.houses.Create(r.Context(), p, &domain.CreateHouseRequest{Name: body.Name, Color: body.Color})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, houseToAPI(house))
}

func (h *Handler) GetHouse(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	house, err := h.houses.GetByID(r.Context(), chi.URLParam(r, "houseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, houseToAPI(house))
}

func (h *Handler) ListHouses(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	houses, err := h.houses.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]houseJSON, len(houses))
	for i := range houses {
		data[i] = houseToAPI(&houses[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}

func (h *Handler) AssignCoordinator(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		FacultyID string `json:"faculty_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.houses.AssignCoordinator(r.Context(), p, chi.URLParam(r, "houseID"), body.FacultyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddHouseMember(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		MemberID string `json:"member_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := h.houses.AddMember(r.Context(), p, chi.URLParam(r, "houseID"), body.MemberID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveHouseMember(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.houses.RemoveMember(r.Context(), p, chi.URLParam(r, "houseID"), chi.URLParam(r, "memberID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListHouseMembers(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.houses.Members(r.Context(), p, chi.URLParam(r, "houseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]principalJSON, len(members))
	for i := range members {
		data[i] = principalToAPI(&members[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}

// === Audit ===

func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	p, err := actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	if v := r.URL.Query().Get("actor_id"); v != "" {
		filter.ActorID = &v
	}
	if v := r.URL.Query().Get("action"); v != "" {
		filter.Action = &v
	}

	entries, total, err := h.audit.List(r.Context(), p, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]auditEntryJSON, len(entries))
	for i, e := range entries {
		data[i] = auditEntryToAPI(e)
	}
	npt := domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total)
	writeJSON(w, http.StatusOK, listResponse{Data: data, NextPageToken: npt})
}
