package repository

import (
	"context"
	"database/sql"

	"housepoints/internal/domain"
)

// LedgerRepo reads the append-only points ledger. Entries are written only
// by CertificateRepo.Approve; everything here is a pure aggregation query
// suitable for the read pool.
type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) GetByCertificateID(ctx context.Context, certificateID string) (*domain.PointEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, certificate_id, house_id, member_id, category, points, year, month, created_at
		 FROM point_entries WHERE certificate_id = ?`, certificateID)

	var e domain.PointEntry
	var category string
	if err := row.Scan(&e.ID, &e.CertificateID, &e.HouseID, &e.MemberID,
		&category, &e.Points, &e.Year, &e.Month, &e.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	e.Category = domain.PointCategory(category)
	return &e, nil
}

func (r *LedgerRepo) TotalForHouse(ctx context.Context, houseID string, filter domain.PointsFilter) (int, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM point_entries WHERE house_id = ?`
	args := []interface{}{houseID}
	if filter.Year != nil {
		query += ` AND year = ?`
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		query += ` AND month = ?`
		args = append(args, *filter.Month)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// HouseTotals returns every house with its point sum for the filter window,
// including houses with no entries (zero points). Ordering is points
// descending with house id ascending as the deterministic tie-break.
func (r *LedgerRepo) HouseTotals(ctx context.Context, filter domain.PointsFilter) ([]domain.HouseTotal, error) {
	query := `SELECT h.id, h.name, h.color, COALESCE(SUM(pe.points), 0) AS total
		FROM houses h
		LEFT JOIN point_entries pe ON pe.house_id = h.id`
	var args []interface{}
	if filter.Year != nil {
		query += ` AND pe.year = ?`
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		query += ` AND pe.month = ?`
		args = append(args, *filter.Month)
	}
	query += ` GROUP BY h.id, h.name, h.color ORDER BY total DESC, h.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.HouseTotal
	for rows.Next() {
		var t domain.HouseTotal
		if err := rows.Scan(&t.HouseID, &t.Name, &t.Color, &t.Points); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MonthlyTotals returns per-month point sums for a house, oldest first,
// for buckets at or after since. Months without entries are absent; the
// aggregation service fills the gaps.
func (r *LedgerRepo) MonthlyTotals(ctx context.Context, houseID string, since domain.MonthDate) ([]domain.MonthlyPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT year, month, SUM(points)
		 FROM point_entries
		 WHERE house_id = ? AND (year > ? OR (year = ? AND month >= ?))
		 GROUP BY year, month
		 ORDER BY year, month`,
		houseID, since.Year, since.Year, since.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.MonthlyPoint
	for rows.Next() {
		var p domain.MonthlyPoint
		if err := rows.Scan(&p.Year, &p.Month, &p.Points); err != nil {
			return nil, err
		}
		p.Label = domain.MonthLabel(p.Year, p.Month)
		points = append(points, p)
	}
	return points, rows.Err()
}

// MemberTotals returns lifetime point sums for a house's members, points
// descending with member id ascending as the tie-break.
func (r *LedgerRepo) MemberTotals(ctx context.Context, houseID string) ([]domain.MemberTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pe.member_id, COALESCE(p.name, pe.member_id), SUM(pe.points) AS total
		 FROM point_entries pe
		 LEFT JOIN principals p ON p.id = pe.member_id
		 WHERE pe.house_id = ?
		 GROUP BY pe.member_id
		 ORDER BY total DESC, pe.member_id ASC`,
		houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.MemberTotal
	for rows.Next() {
		var t domain.MemberTotal
		if err := rows.Scan(&t.MemberID, &t.Name, &t.Points); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
