package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housepoints/internal/domain"
)

// approveWithBucket approves a fresh certificate for the owner and lands
// its points in the given year/month bucket.
func (r *testRepos) approveWithBucket(t *testing.T, owner *domain.Principal, houseID string, points, year, month int) {
	t.Helper()
	cert := r.certificate(t, owner)
	require.NoError(t, r.certs.Approve(t.Context(), cert.ID,
		points, entryFor(cert, houseID, points, year, month)))
}

func TestLedgerRepo_HouseTotalsIncludesEmptyHouses(t *testing.T) {
	r := newTestRepos(t)
	phoenix := r.house(t, "Phoenix")
	griffin := r.house(t, "Griffin")
	alice := r.principal(t, "alice", domain.RoleStudent, &phoenix.ID)

	r.approveWithBucket(t, alice, phoenix.ID, 30, 2026, 2)
	r.approveWithBucket(t, alice, phoenix.ID, 50, 2026, 3)

	totals, err := r.ledger.HouseTotals(t.Context(), domain.PointsFilter{})
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, phoenix.ID, totals[0].HouseID)
	assert.Equal(t, 80, totals[0].Points)
	assert.Equal(t, griffin.ID, totals[1].HouseID)
	assert.Equal(t, 0, totals[1].Points)
	assert.Equal(t, "Griffin", totals[1].Name)
}

func TestLedgerRepo_HouseTotalsFilterWindow(t *testing.T) {
	r := newTestRepos(t)
	phoenix := r.house(t, "Phoenix")
	alice := r.principal(t, "alice", domain.RoleStudent, &phoenix.ID)

	r.approveWithBucket(t, alice, phoenix.ID, 30, 2025, 12)
	r.approveWithBucket(t, alice, phoenix.ID, 50, 2026, 3)

	year := 2026
	totals, err := r.ledger.HouseTotals(t.Context(), domain.PointsFilter{Year: &year})
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 50, totals[0].Points)

	month := 12
	lastDecember := 2025
	totals, err = r.ledger.HouseTotals(t.Context(), domain.PointsFilter{Year: &lastDecember, Month: &month})
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 30, totals[0].Points)
}

func TestLedgerRepo_TotalForHouse(t *testing.T) {
	r := newTestRepos(t)
	phoenix := r.house(t, "Phoenix")
	griffin := r.house(t, "Griffin")
	alice := r.principal(t, "alice", domain.RoleStudent, &phoenix.ID)
	bob := r.principal(t, "bob", domain.RoleStudent, &griffin.ID)

	r.approveWithBucket(t, alice, phoenix.ID, 20, 2026, 1)
	r.approveWithBucket(t, alice, phoenix.ID, 40, 2026, 2)
	r.approveWithBucket(t, bob, griffin.ID, 60, 2026, 2)

	total, err := r.ledger.TotalForHouse(t.Context(), phoenix.ID, domain.PointsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 60, total)

	year, month := 2026, 2
	total, err = r.ledger.TotalForHouse(t.Context(), phoenix.ID, domain.PointsFilter{Year: &year, Month: &month})
	require.NoError(t, err)
	assert.Equal(t, 40, total)

	// No entries at all still sums to zero.
	empty := r.house(t, "Dragon")
	total, err = r.ledger.TotalForHouse(t.Context(), empty.ID, domain.PointsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestLedgerRepo_MonthlyTotalsSinceBound(t *testing.T) {
	r := newTestRepos(t)
	phoenix := r.house(t, "Phoenix")
	alice := r.principal(t, "alice", domain.RoleStudent, &phoenix.ID)

	r.approveWithBucket(t, alice, phoenix.ID, 10, 2025, 11) // before the window
	r.approveWithBucket(t, alice, phoenix.ID, 20, 2025, 12)
	r.approveWithBucket(t, alice, phoenix.ID, 30, 2026, 2)
	r.approveWithBucket(t, alice, phoenix.ID, 5, 2026, 2)

	points, err := r.ledger.MonthlyTotals(t.Context(), phoenix.ID, domain.MonthDate{Month: 12, Year: 2025})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, 2025, points[0].Year)
	assert.Equal(t, 12, points[0].Month)
	assert.Equal(t, 20, points[0].Points)
	assert.Equal(t, "Dec 2025", points[0].Label)

	assert.Equal(t, 2026, points[1].Year)
	assert.Equal(t, 2, points[1].Month)
	assert.Equal(t, 35, points[1].Points)
}

func TestLedgerRepo_MemberTotalsOrdering(t *testing.T) {
	r := newTestRepos(t)
	phoenix := r.house(t, "Phoenix")
	alice := r.principal(t, "alice", domain.RoleStudent, &phoenix.ID)
	bob := r.principal(t, "bob", domain.RoleStudent, &phoenix.ID)

	r.approveWithBucket(t, alice, phoenix.ID, 20, 2026, 1)
	r.approveWithBucket(t, bob, phoenix.ID, 30, 2026, 1)
	r.approveWithBucket(t, bob, phoenix.ID, 30, 2026, 2)

	totals, err := r.ledger.MemberTotals(t.Context(), phoenix.ID)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, bob.ID, totals[0].MemberID)
	assert.Equal(t, 60, totals[0].Points)
	assert.Equal(t, "bob", totals[0].Name)
	assert.Equal(t, alice.ID, totals[1].MemberID)
	assert.Equal(t, 20, totals[1].Points)
}

func TestLedgerRepo_GetByCertificateIDNotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.ledger.GetByCertificateID(t.Context(), "missing")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
