package service

import (
	"context"
	"time"

	"housepoints/internal/domain"
)

// MaxSeriesMonths bounds monthly series windows.
const MaxSeriesMonths = 60

// AggregationService computes house and member point views from the
// append-only ledger. All reads are pure functions over a consistent
// snapshot; nothing here blocks the write path.
type AggregationService struct {
	ledger domain.LedgerRepository
	houses domain.HouseRepository
	now    func() time.Time
}

func NewAggregationService(ledger domain.LedgerRepository, houses domain.HouseRepository) *AggregationService {
	return &AggregationService{ledger: ledger, houses: houses, now: time.Now}
}

// TotalForHouse sums ledger entries for a house, optionally restricted to
// a year or a year/month.
func (s *AggregationService) TotalForHouse(ctx context.Context, houseID string, filter domain.PointsFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return 0, err
	}
	return s.ledger.TotalForHouse(ctx, houseID, filter)
}

// Leaderboard returns houses sorted by total points descending, ties
// broken by house id ascending for determinism. Houses without entries
// appear with zero points.
func (s *AggregationService) Leaderboard(ctx context.Context, filter domain.PointsFilter) ([]domain.HouseTotal, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.ledger.HouseTotals(ctx, filter)
}

// MonthlySeries returns a gap-free sequence of per-month totals for the
// most recent monthsBack calendar months, oldest first. Months without
// entries appear with zero points so charts render contiguous series.
func (s *AggregationService) MonthlySeries(ctx context.Context, houseID string, monthsBack int) ([]domain.MonthlyPoint, error) {
	if monthsBack < 1 || monthsBack > MaxSeriesMonths {
		return nil, domain.ErrValidation("months_back must be between 1 and %d", MaxSeriesMonths)
	}
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return nil, err
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(monthsBack - 1), 0)
	since := domain.MonthDate{Month: int(start.Month()), Year: start.Year()}

	totals, err := s.ledger.MonthlyTotals(ctx, houseID, since)
	if err != nil {
		return nil, err
	}

	byBucket := make(map[[2]int]int, len(totals))
	for _, t := range totals {
		byBucket[[2]int{t.Year, t.Month}] = t.Points
	}

	series := make([]domain.MonthlyPoint, 0, monthsBack)
	cursor := start
	for i := 0; i < monthsBack; i++ {
		year, month := cursor.Year(), int(cursor.Month())
		series = append(series, domain.MonthlyPoint{
			Year:   year,
			Month:  month,
			Label:  domain.MonthLabel(year, month),
			Points: byBucket[[2]int{year, month}],
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return series, nil
}

// MemberRanking returns the house's members sorted by lifetime total
// descending, ties broken by member id ascending.
func (s *AggregationService) MemberRanking(ctx context.Context, houseID string) ([]domain.MemberTotal, error) {
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return nil, err
	}
	return s.ledger.MemberTotals(ctx, houseID)
}
