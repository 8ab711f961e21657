package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"housepoints/internal/db"
	"housepoints/internal/domain"
)

// testRepos wires every repository against a single migrated SQLite file.
// The write pool serves all repositories; read-pool behavior is covered by
// the API integration tests.
type testRepos struct {
	db         *sql.DB
	principals *PrincipalRepo
	houses     *HouseRepo
	certs      *CertificateRepo
	ledger     *LedgerRepo
	audit      *AuditRepo
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)
	return &testRepos{
		db:         writeDB,
		principals: NewPrincipalRepo(writeDB),
		houses:     NewHouseRepo(writeDB),
		certs:      NewCertificateRepo(writeDB),
		ledger:     NewLedgerRepo(writeDB),
		audit:      NewAuditRepo(writeDB),
	}
}

func (r *testRepos) house(t *testing.T, name string) *domain.House {
	t.Helper()
	h, err := r.houses.Create(t.Context(), &domain.House{Name: name, Color: "#123456"})
	require.NoError(t, err)
	return h
}

func (r *testRepos) principal(t *testing.T, name string, role domain.Role, houseID *string) *domain.Principal {
	t.Helper()
	p, err := r.principals.Create(t.Context(), &domain.Principal{
		Name: name, Role: role, HouseID: houseID, Active: true,
	})
	require.NoError(t, err)
	return p
}

func (r *testRepos) certificate(t *testing.T, owner *domain.Principal) *domain.Certificate {
	t.Helper()
	ref := "blob-" + domain.NewID()
	c, err := r.certs.Create(t.Context(), &domain.Certificate{
		OwnerID:      owner.ID,
		OwnerRole:    owner.Role,
		Name:         "Cloud Fundamentals",
		Organization: "Acme Institute",
		Type:         domain.CertExternal,
		Level:        domain.LevelIntermediate,
		IssueDate:    domain.MonthDate{Month: 3, Year: 2026},
		UploadType:   domain.UploadFile,
		ArtifactRef:  &ref,
	})
	require.NoError(t, err)
	return c
}

// entryFor builds a ledger entry the way the certificate service does on
// approval, with an explicit year/month bucket.
func entryFor(cert *domain.Certificate, houseID string, points, year, month int) *domain.PointEntry {
	return &domain.PointEntry{
		CertificateID: cert.ID,
		HouseID:       houseID,
		MemberID:      cert.OwnerID,
		Category:      domain.CategoryForCertificate(cert.Type),
		Points:        points,
		Year:          year,
		Month:         month,
	}
}
