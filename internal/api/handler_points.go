package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"housepoints/internal/domain"
)

// pointsFilterFromQuery parses the optional year/month aggregation window.
func pointsFilterFromQuery(r *http.Request) (domain.PointsFilter, error) {
	year, err := intQuery(r, "year")
	if err != nil {
		return domain.PointsFilter{}, err
	}
	month, err := intQuery(r, "month")
	if err != nil {
		return domain.PointsFilter{}, err
	}
	return domain.PointsFilter{Year: year, Month: month}, nil
}

func (h *Handler) HousePoints(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	filter, err := pointsFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	houseID := chi.URLParam(r, "houseID")
	total, err := h.points.TotalForHouse(r.Context(), houseID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"house_id": houseID,
		"points":   total,
	})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	filter, err := pointsFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	totals, err := h.points.Leaderboard(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	type entry struct {
		HouseID string `json:"house_id"`
		Name    string `json:"name"`
		Color   string `json:"color"`
		Points  int    `json:"points"`
	}
	data := make([]entry, len(totals))
	for i, t := range totals {
		data[i] = entry{HouseID: t.HouseID, Name: t.Name, Color: t.Color, Points: t.Points}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}

func (h *Handler) HousePointsSeries(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	monthsBack, err := intQuery(r, "months_back")
	if err != nil {
		writeError(w, err)
		return
	}
	back := 6
	if monthsBack != nil {
		back = *monthsBack
	}

	series, err := h.points.MonthlySeries(r.Context(), chi.URLParam(r, "houseID"), back)
	if err != nil {
		writeError(w, err)
		return
	}

	type bucket struct {
		Year   int    `json:"year"`
		Month  int    `json:"month"`
		Label  string `json:"label"`
		Points int    `json:"points"`
	}
	data := make([]bucket, len(series))
	for i, p := range series {
		data[i] = bucket{Year: p.Year, Month: p.Month, Label: p.Label, Points: p.Points}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}

func (h *Handler) HouseMemberRanking(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, err)
		return
	}

	ranking, err := h.points.MemberRanking(r.Context(), chi.URLParam(r, "houseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	type entry struct {
		MemberID string `json:"member_id"`
		Name     string `json:"name"`
		Points   int    `json:"points"`
	}
	data := make([]entry, len(ranking))
	for i, m := range ranking {
		data[i] = entry{MemberID: m.MemberID, Name: m.Name, Points: m.Points}
	}
	writeJSON(w, http.StatusOK, listResponse{Data: data})
}
