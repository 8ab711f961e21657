package api

import (
	"time"

	"housepoints/internal/domain"
)

// monthDateJSON is the wire form of a month-granular date.
type monthDateJSON struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func monthDateToAPI(d domain.MonthDate) monthDateJSON {
	return monthDateJSON{Month: d.Month, Year: d.Year}
}

func (d monthDateJSON) toDomain() domain.MonthDate {
	return domain.MonthDate{Month: d.Month, Year: d.Year}
}

// hashesJSON is the wire form of artifact content hashes.
type hashesJSON struct {
	MD5    string `json:"md5"`
	SHA256 string `json:"sha256"`
}

// certificatePayloadJSON is the owner-supplied body for submit and edit.
type certificatePayloadJSON struct {
	Name           string         `json:"name"`
	Organization   string         `json:"organization"`
	Type           string         `json:"type"`
	Level          string         `json:"level"`
	IssueDate      monthDateJSON  `json:"issue_date"`
	Expires        bool           `json:"expires"`
	ExpirationDate *monthDateJSON `json:"expiration_date,omitempty"`
	UploadType     string         `json:"upload_type"`
	ArtifactRef    *string        `json:"artifact_ref,omitempty"`
	ExternalURL    *string        `json:"external_url,omitempty"`
	Hashes         *hashesJSON    `json:"hashes,omitempty"`
}

func (p certificatePayloadJSON) toDomain() domain.CertificatePayload {
	out := domain.CertificatePayload{
		Name:         p.Name,
		Organization: p.Organization,
		Type:         domain.CertificateType(p.Type),
		Level:        domain.CertificateLevel(p.Level),
		IssueDate:    p.IssueDate.toDomain(),
		Expires:      p.Expires,
		UploadType:   domain.UploadType(p.UploadType),
		ArtifactRef:  p.ArtifactRef,
		ExternalURL:  p.ExternalURL,
	}
	if p.ExpirationDate != nil {
		d := p.ExpirationDate.toDomain()
		out.ExpirationDate = &d
	}
	if p.Hashes != nil {
		out.Hashes = &domain.ContentHashes{MD5: p.Hashes.MD5, SHA256: p.Hashes.SHA256}
	}
	return out
}

// certificateJSON is the wire form of a certificate record.
type certificateJSON struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	OwnerRole      string         `json:"owner_role"`
	Name           string         `json:"name"`
	Organization   string         `json:"organization"`
	Type           string         `json:"type"`
	Level          string         `json:"level"`
	IssueDate      monthDateJSON  `json:"issue_date"`
	Expires        bool           `json:"expires"`
	ExpirationDate *monthDateJSON `json:"expiration_date,omitempty"`
	UploadType     string         `json:"upload_type"`
	ArtifactRef    *string        `json:"artifact_ref,omitempty"`
	ExternalURL    *string        `json:"external_url,omitempty"`
	Hashes         *hashesJSON    `json:"hashes,omitempty"`
	Status         string         `json:"status"`
	AwardedPoints  *int           `json:"awarded_points,omitempty"`
	ResubmittedAt  *time.Time     `json:"resubmitted_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func certificateToAPI(c *domain.Certificate) certificateJSON {
	out := certificateJSON{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		OwnerRole:     string(c.OwnerRole),
		Name:          c.Name,
		Organization:  c.Organization,
		Type:          string(c.Type),
		Level:         string(c.Level),
		IssueDate:     monthDateToAPI(c.IssueDate),
		Expires:       c.Expires,
		UploadType:    string(c.UploadType),
		ArtifactRef:   c.ArtifactRef,
		ExternalURL:   c.ExternalURL,
		Status:        string(c.Status),
		AwardedPoints: c.AwardedPoints,
		ResubmittedAt: c.ResubmittedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.ExpirationDate != nil {
		d := monthDateToAPI(*c.ExpirationDate)
		out.ExpirationDate = &d
	}
	if c.Hashes != nil {
		out.Hashes = &hashesJSON{MD5: c.Hashes.MD5, SHA256: c.Hashes.SHA256}
	}
	return out
}

// commentJSON is the wire form of an approval-thread comment.
type commentJSON struct {
	ID            string    `json:"id"`
	CertificateID string    `json:"certificate_id"`
	AuthorID      string    `json:"author_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

func commentToAPI(c domain.Comment) commentJSON {
	return commentJSON{
		ID:            c.ID,
		CertificateID: c.CertificateID,
		AuthorID:      c.AuthorID,
		Body:          c.Body,
		CreatedAt:     c.CreatedAt,
	}
}

// principalJSON is the wire form of a principal.
type principalJSON struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Role                 string    `json:"role"`
	Permissions          []string  `json:"permissions"`
	HouseID              *string   `json:"house_id,omitempty"`
	CoordinatorOfHouseID *string   `json:"coordinator_of_house_id,omitempty"`
	Active               bool      `json:"active"`
	CreatedAt            time.Time `json:"created_at"`
}

func principalToAPI(p *domain.Principal) principalJSON {
	perms := make([]string, len(p.Permissions))
	for i, perm := range p.Permissions {
		perms[i] = string(perm)
	}
	return principalJSON{
		ID:                   p.ID,
		Name:                 p.Name,
		Role:                 string(p.Role),
		Permissions:          perms,
		HouseID:              p.HouseID,
		CoordinatorOfHouseID: p.CoordinatorOfHouseID,
		Active:               p.Active,
		CreatedAt:            p.CreatedAt,
	}
}

// houseJSON is the wire form of a house.
type houseJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	CoordinatorID *string   `json:"coordinator_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func houseToAPI(h *domain.House) houseJSON {
	return houseJSON{
		ID:            h.ID,
		Name:          h.Name,
		Color:         h.Color,
		CoordinatorID: h.CoordinatorID,
		CreatedAt:     h.CreatedAt,
	}
}

// auditEntryJSON is the wire form of an audit trail record.
type auditEntryJSON struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Status     string    `json:"status"`
	Detail     *string   `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func auditEntryToAPI(e domain.AuditEntry) auditEntryJSON {
	return auditEntryJSON{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Status:     e.Status,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt,
	}
}

// listResponse is the envelope for paginated collections.
type listResponse struct {
	Data          interface{} `json:"data"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}
