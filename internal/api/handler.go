// Package api provides HTTP handlers for the house points REST API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"housepoints/internal/artifact"
	"housepoints/internal/domain"
	"housepoints/internal/service"
)

// Handler holds the service dependencies behind the REST surface.
type Handler struct {
	certs      *service.CertificateService
	points     *service.AggregationService
	principals *service.PrincipalService
	houses     *service.HouseService
	audit      *service.AuditService
	artifacts  artifact.Store

	maxUploadBytes int64
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	certs *service.CertificateService,
	points *service.AggregationService,
	principals *service.PrincipalService,
	houses *service.HouseService,
	audit *service.AuditService,
	artifacts artifact.Store,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		certs:          certs,
		points:         points,
		principals:     principals,
		houses:         houses,
		audit:          audit,
		artifacts:      artifacts,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes mounts all authenticated /v1 endpoints on the router. The caller
// is responsible for wrapping the router in auth middleware; every handler
// assumes a principal is present in the request context.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/certificates", func(r chi.Router) {
		r.Post("/", h.SubmitCertificate)
		r.Get("/", h.ListCertificates)
		r.Get("/pending-review", h.PendingReview)
		r.Route("/{certificateID}", func(r chi.Router) {
			r.Get("/", h.GetCertificate)
			r.Patch("/", h.EditCertificate)
			r.Delete("/", h.DeleteCertificate)
			r.Post("/approve", h.ApproveCertificate)
			r.Post("/reject", h.RejectCertificate)
			r.Post("/comments", h.AddComment)
			r.Get("/comments", h.ListComments)
		})
	})

	r.Post("/artifacts", h.UploadArtifact)
	r.Get("/artifacts/{artifactRef}", h.FetchArtifact)

	r.Get("/leaderboard", h.Leaderboard)
	r.Route("/houses", func(r chi.Router) {
		r.Post("/", h.CreateHouse)
		r.Get("/", h.ListHouses)
		r.Route("/{houseID}", func(r chi.Router) {
			r.Get("/", h.GetHouse)
			r.Put("/coordinator", h.AssignCoordinator)
			r.Post("/members", h.AddHouseMember)
			r.Delete("/members/{memberID}", h.RemoveHouseMember)
			r.Get("/members", h.ListHouseMembers)
			r.Get("/points", h.HousePoints)
			r.Get("/points/series", h.HousePointsSeries)
			r.Get("/ranking", h.HouseMemberRanking)
		})
	})

	r.Route("/principals", func(r chi.Router) {
		r.Post("/", h.CreatePrincipal)
		r.Get("/", h.ListPrincipals)
		r.Get("/me", h.WhoAmI)
		r.Post("/{principalID}/deactivate", h.DeactivatePrincipal)
		r.Put("/{principalID}/permissions", h.GrantPermissions)
	})

	r.Get("/audit", h.ListAudit)
}

// Healthz reports liveness. Mounted outside the auth middleware.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

// actor extracts the authenticated principal placed by the auth middleware.
func actor(r *http.Request) (*domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok || p == nil {
		return nil, domain.ErrAuthorization("no authenticated principal")
	}
	return p, nil
}

// decodeJSON decodes the request body into v, mapping malformed input to a
// ValidationError so it renders as 400.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation("request body is required")
		}
		return domain.ErrValidation("malformed JSON body: %v", err)
	}
	return nil
}

// pageFromQuery extracts a PageRequest from max_results/page_token params.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if v := r.URL.Query().Get("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.MaxResults = n
		}
	}
	return p
}

// intQuery parses an optional integer query parameter. A present but
// non-numeric value yields a ValidationError.
func intQuery(r *http.Request, name string) (*int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, domain.ErrValidation("%s must be an integer", name)
	}
	return &n, nil
}
