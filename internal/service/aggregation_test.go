package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housepoints/internal/domain"
)

// submitAndApprove pushes one certificate through the approval flow so its
// points land in the ledger bucket of the given issue month.
func (f *fixture) submitAndApprove(t *testing.T, student *domain.Principal, approver *domain.Principal, points, year, month int) {
	t.Helper()
	payload := validPayload()
	payload.IssueDate = domain.MonthDate{Month: month, Year: year}
	cert, err := f.certs.Submit(t.Context(), student, payload)
	require.NoError(t, err)
	_, err = f.certs.Approve(t.Context(), approver, cert.ID, intptr(points))
	require.NoError(t, err)
}

func TestAggregationService_Leaderboard(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	griffin := f.house(t, "Griffin")
	alice := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	f.submitAndApprove(t, alice, coordinator, 40, 2026, 2)
	f.submitAndApprove(t, alice, coordinator, 20, 2026, 3)

	totals, err := f.agg.Leaderboard(t.Context(), domain.PointsFilter{})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, phoenix.ID, totals[0].HouseID)
	assert.Equal(t, 60, totals[0].Points)
	assert.Equal(t, griffin.ID, totals[1].HouseID)
	assert.Equal(t, 0, totals[1].Points)

	badMonth := 13
	year := 2026
	_, err = f.agg.Leaderboard(t.Context(), domain.PointsFilter{Year: &year, Month: &badMonth})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestAggregationService_TotalForHouse(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	alice := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	f.submitAndApprove(t, alice, coordinator, 40, 2026, 2)
	f.submitAndApprove(t, alice, coordinator, 20, 2025, 12)

	total, err := f.agg.TotalForHouse(t.Context(), phoenix.ID, domain.PointsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 60, total)

	year := 2026
	total, err = f.agg.TotalForHouse(t.Context(), phoenix.ID, domain.PointsFilter{Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 40, total)

	var notFound *domain.NotFoundError
	_, err = f.agg.TotalForHouse(t.Context(), "missing", domain.PointsFilter{})
	require.ErrorAs(t, err, &notFound)
}

func TestAggregationService_MonthlySeriesGapFree(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	alice := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	// Pin "now" so the window is deterministic: June 2026 looking back
	// six months covers Jan-Jun 2026.
	f.agg.now = func() time.Time {
		return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	}

	f.submitAndApprove(t, alice, coordinator, 30, 2026, 2)
	f.submitAndApprove(t, alice, coordinator, 50, 2026, 5)
	f.submitAndApprove(t, alice, coordinator, 10, 2025, 12) // outside the window

	series, err := f.agg.MonthlySeries(t.Context(), phoenix.ID, 6)
	require.NoError(t, err)
	require.Len(t, series, 6)

	assert.Equal(t, "Jan 2026", series[0].Label)
	assert.Equal(t, 0, series[0].Points)
	assert.Equal(t, 30, series[1].Points)
	assert.Equal(t, 0, series[2].Points)
	assert.Equal(t, 0, series[3].Points)
	assert.Equal(t, 50, series[4].Points)
	assert.Equal(t, "Jun 2026", series[5].Label)
	assert.Equal(t, 0, series[5].Points)
}

func TestAggregationService_MonthlySeriesCrossesYearBoundary(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	alice := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	f.agg.now = func() time.Time {
		return time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	}

	f.submitAndApprove(t, alice, coordinator, 25, 2025, 12)

	series, err := f.agg.MonthlySeries(t.Context(), phoenix.ID, 4)
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, "Nov 2025", series[0].Label)
	assert.Equal(t, 25, series[1].Points)
	assert.Equal(t, "Feb 2026", series[3].Label)
}

func TestAggregationService_MonthlySeriesBounds(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")

	var validation *domain.ValidationError
	_, err := f.agg.MonthlySeries(t.Context(), phoenix.ID, 0)
	require.ErrorAs(t, err, &validation)
	_, err = f.agg.MonthlySeries(t.Context(), phoenix.ID, MaxSeriesMonths+1)
	require.ErrorAs(t, err, &validation)

	var notFound *domain.NotFoundError
	_, err = f.agg.MonthlySeries(t.Context(), "missing", 6)
	require.ErrorAs(t, err, &notFound)
}

func TestAggregationService_MemberRanking(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	alice := f.student(t, "alice", &phoenix.ID)
	bob := f.student(t, "bob", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	f.submitAndApprove(t, alice, coordinator, 20, 2026, 1)
	f.submitAndApprove(t, bob, coordinator, 30, 2026, 1)
	f.submitAndApprove(t, bob, coordinator, 30, 2026, 2)

	ranking, err := f.agg.MemberRanking(t.Context(), phoenix.ID)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, bob.ID, ranking[0].MemberID)
	assert.Equal(t, 60, ranking[0].Points)
	assert.Equal(t, alice.ID, ranking[1].MemberID)
}
