package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"housepoints/internal/db"
	"housepoints/internal/db/repository"
	"housepoints/internal/domain"
)

// fixture wires every service against a migrated SQLite file, the same
// shape the server assembles in production.
type fixture struct {
	principalRepo *repository.PrincipalRepo
	houseRepo     *repository.HouseRepo

	certs      *CertificateService
	agg        *AggregationService
	houses     *HouseService
	principals *PrincipalService
	audit      *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)

	principalRepo := repository.NewPrincipalRepo(writeDB)
	houseRepo := repository.NewHouseRepo(writeDB)
	certRepo := repository.NewCertificateRepo(writeDB)
	ledgerRepo := repository.NewLedgerRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	caps := NewCapabilityResolver(principalRepo)
	return &fixture{
		principalRepo: principalRepo,
		houseRepo:     houseRepo,
		certs:         NewCertificateService(certRepo, caps, DefaultAwardPolicy(), auditRepo),
		agg:           NewAggregationService(ledgerRepo, houseRepo),
		houses:        NewHouseService(houseRepo, principalRepo, auditRepo),
		principals:    NewPrincipalService(principalRepo, auditRepo),
		audit:         NewAuditService(auditRepo),
	}
}

func (f *fixture) house(t *testing.T, name string) *domain.House {
	t.Helper()
	h, err := f.houseRepo.Create(t.Context(), &domain.House{Name: name, Color: "#123456"})
	require.NoError(t, err)
	return h
}

func (f *fixture) admin(t *testing.T) *domain.Principal {
	t.Helper()
	return f.newPrincipal(t, "admin", domain.RoleAdmin, nil, nil)
}

func (f *fixture) coordinator(t *testing.T, houseID string) *domain.Principal {
	t.Helper()
	return f.newPrincipal(t, "coordinator", domain.RoleFaculty, nil, &houseID)
}

func (f *fixture) student(t *testing.T, name string, houseID *string) *domain.Principal {
	t.Helper()
	return f.newPrincipal(t, name, domain.RoleStudent, houseID, nil)
}

func (f *fixture) newPrincipal(t *testing.T, name string, role domain.Role, houseID, coordinates *string) *domain.Principal {
	t.Helper()
	p, err := f.principalRepo.Create(t.Context(), &domain.Principal{
		Name: name, Role: role, HouseID: houseID, CoordinatorOfHouseID: coordinates, Active: true,
	})
	require.NoError(t, err)
	return p
}

func validPayload() domain.CertificatePayload {
	ref := "blob-1"
	return domain.CertificatePayload{
		Name:         "Cloud Fundamentals",
		Organization: "Acme Institute",
		Type:         domain.CertExternal,
		Level:        domain.LevelIntermediate,
		IssueDate:    domain.MonthDate{Month: 3, Year: 2026},
		UploadType:   domain.UploadFile,
		ArtifactRef:  &ref,
	}
}

func intptr(n int) *int { return &n }
