package domain

import "context"

// PrincipalRepository persists principals and their house affiliations.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByID(ctx context.Context, id string) (*Principal, error)
	GetByExternalID(ctx context.Context, externalID string) (*Principal, error)
	List(ctx context.Context, page PageRequest) ([]Principal, int64, error)
	ListByHouse(ctx context.Context, houseID string) ([]Principal, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetPermissions(ctx context.Context, id string, perms []Permission) error
	SetHouse(ctx context.Context, id string, houseID *string) error
	SetCoordinatorOf(ctx context.Context, id string, houseID *string) error
}

// HouseRepository persists houses.
type HouseRepository interface {
	Create(ctx context.Context, h *House) (*House, error)
	GetByID(ctx context.Context, id string) (*House, error)
	List(ctx context.Context) ([]House, error)
	SetCoordinator(ctx context.Context, houseID string, facultyID *string) error
}

// CertificateRepository persists certificates and their comment threads.
//
// Mutations re-check the certificate's current status at commit time with
// status-guarded updates: when the guard misses (a concurrent writer won
// the race) the repository returns InvalidStateError. Approve atomically
// transitions the certificate and appends the ledger entry in one
// transaction; a ledger collision surfaces as DuplicateEntryError.
type CertificateRepository interface {
	Create(ctx context.Context, c *Certificate) (*Certificate, error)
	GetByID(ctx context.Context, id string) (*Certificate, error)
	List(ctx context.Context, filter CertificateFilter) ([]Certificate, int64, error)
	UpdatePayload(ctx context.Context, id string, payload CertificatePayload, fromStatus CertificateStatus) (*Certificate, error)
	Approve(ctx context.Context, id string, points int, entry *PointEntry) error
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, c *Comment) (*Comment, error)
	ListComments(ctx context.Context, certificateID string) ([]Comment, error)
}

// LedgerRepository reads the append-only points ledger. The only write
// path is CertificateRepository.Approve; everything here operates on a
// read-consistent snapshot and never blocks writers.
type LedgerRepository interface {
	GetByCertificateID(ctx context.Context, certificateID string) (*PointEntry, error)
	TotalForHouse(ctx context.Context, houseID string, filter PointsFilter) (int, error)
	HouseTotals(ctx context.Context, filter PointsFilter) ([]HouseTotal, error)
	MonthlyTotals(ctx context.Context, houseID string, since MonthDate) ([]MonthlyPoint, error)
	MemberTotals(ctx context.Context, houseID string) ([]MemberTotal, error)
}

// AuditRepository persists the admin audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
