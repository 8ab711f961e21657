package domain

import "time"

// CertificateType distinguishes certificates earned inside the
// organization from external ones.
type CertificateType string

const (
	CertInternal CertificateType = "internal"
	CertExternal CertificateType = "external"
)

// Valid reports whether the type is one of the known values.
func (t CertificateType) Valid() bool {
	return t == CertInternal || t == CertExternal
}

// CertificateLevel is the difficulty tier of the achievement.
type CertificateLevel string

const (
	LevelBeginner     CertificateLevel = "beginner"
	LevelIntermediate CertificateLevel = "intermediate"
	LevelAdvanced     CertificateLevel = "advanced"
)

// Valid reports whether the level is one of the known values.
func (l CertificateLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// UploadType records how the certificate artifact was provided.
type UploadType string

const (
	UploadFile  UploadType = "file"  // uploaded blob, content-hashed
	UploadURL   UploadType = "url"   // externally hosted
	UploadPrint UploadType = "print" // scanned hard copy, stored as a blob
)

// Valid reports whether the upload type is one of the known values.
func (u UploadType) Valid() bool {
	switch u {
	case UploadFile, UploadURL, UploadPrint:
		return true
	}
	return false
}

// CertificateStatus is the certificate's position in the approval state
// machine. Pending is the initial state; approved and rejected are
// terminal (a rejected certificate may be edited, which resubmits it as
// pending again).
type CertificateStatus string

const (
	StatusPending  CertificateStatus = "pending"
	StatusApproved CertificateStatus = "approved"
	StatusRejected CertificateStatus = "rejected"
)

// MonthDate is a month-granularity date used for issue and expiration.
type MonthDate struct {
	Month int // 1-12
	Year  int
}

// IsZero reports whether the date is unset.
func (d MonthDate) IsZero() bool { return d.Month == 0 && d.Year == 0 }

// Valid reports whether the date holds a plausible month and year.
func (d MonthDate) Valid() bool {
	return d.Month >= 1 && d.Month <= 12 && d.Year >= 1900 && d.Year <= 2200
}

// Before reports whether d is strictly earlier than other.
func (d MonthDate) Before(other MonthDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	return d.Month < other.Month
}

// ContentHashes holds the digests computed when a file was stored.
// Present only for blob-backed uploads.
type ContentHashes struct {
	MD5    string
	SHA256 string
}

// Certificate is an achievement record moving through the approval state
// machine. Once approved it is immutable and its awarded points are
// permanent.
type Certificate struct {
	ID             string
	OwnerID        string
	OwnerRole      Role
	Name           string
	Organization   string
	Type           CertificateType
	Level          CertificateLevel
	IssueDate      MonthDate
	Expires        bool
	ExpirationDate *MonthDate
	UploadType     UploadType
	ArtifactRef    *string // opaque blob handle; exactly one of this or ExternalURL is set
	ExternalURL    *string
	Hashes         *ContentHashes
	Status         CertificateStatus
	AwardedPoints  *int // set if and only if Status == StatusApproved
	ResubmittedAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Comment is an append-only note on a certificate's approval thread.
type Comment struct {
	ID            string
	CertificateID string
	AuthorID      string
	Body          string
	CreatedAt     time.Time
}

// CertificatePayload holds the owner-supplied fields of a certificate,
// shared by submit and edit.
type CertificatePayload struct {
	Name           string
	Organization   string
	Type           CertificateType
	Level          CertificateLevel
	IssueDate      MonthDate
	Expires        bool
	ExpirationDate *MonthDate
	UploadType     UploadType
	ArtifactRef    *string
	ExternalURL    *string
	Hashes         *ContentHashes
}

// Validate checks the payload and returns a ValidationError listing every
// violated field. All fields are checked, not just the first.
func (p *CertificatePayload) Validate() error {
	var violations []string

	if p.Name == "" {
		violations = append(violations, "name is required")
	}
	if p.Organization == "" {
		violations = append(violations, "issuing organization is required")
	}
	if !p.Type.Valid() {
		violations = append(violations, "type must be 'internal' or 'external'")
	}
	if !p.Level.Valid() {
		violations = append(violations, "level must be 'beginner', 'intermediate', or 'advanced'")
	}
	if p.IssueDate.IsZero() {
		violations = append(violations, "issue date is required")
	} else if !p.IssueDate.Valid() {
		violations = append(violations, "issue date is out of range")
	}
	if !p.UploadType.Valid() {
		violations = append(violations, "upload type must be 'file', 'url', or 'print'")
	}

	hasArtifact := p.ArtifactRef != nil && *p.ArtifactRef != ""
	hasURL := p.ExternalURL != nil && *p.ExternalURL != ""
	switch {
	case hasArtifact && hasURL:
		violations = append(violations, "supply either an artifact or an external URL, not both")
	case !hasArtifact && !hasURL:
		violations = append(violations, "either an artifact or an external URL is required")
	case p.UploadType == UploadURL && !hasURL:
		violations = append(violations, "url uploads require an external URL")
	case (p.UploadType == UploadFile || p.UploadType == UploadPrint) && !hasArtifact:
		violations = append(violations, "file and print uploads require an artifact")
	}
	if p.Hashes != nil && p.UploadType != UploadFile {
		violations = append(violations, "content hashes are only recorded for file uploads")
	}

	if p.Expires {
		switch {
		case p.ExpirationDate == nil || p.ExpirationDate.IsZero():
			violations = append(violations, "expiration date is required for expiring certificates")
		case !p.ExpirationDate.Valid():
			violations = append(violations, "expiration date is out of range")
		case p.ExpirationDate.Before(p.IssueDate):
			violations = append(violations, "expiration date must not be earlier than the issue date")
		}
	} else if p.ExpirationDate != nil && !p.ExpirationDate.IsZero() {
		violations = append(violations, "expiration date given for a non-expiring certificate")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// CertificateFilter narrows certificate list queries.
type CertificateFilter struct {
	OwnerID   *string
	OwnerRole *Role
	HouseID   *string
	Status    *CertificateStatus
	Page      PageRequest
}
