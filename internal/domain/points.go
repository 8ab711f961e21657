package domain

import (
	"fmt"
	"time"
)

// PointCategory buckets ledger entries for aggregation. Certificate
// approvals map to internal or external; events exists for event-sourced
// awards landing in the same ledger.
type PointCategory string

const (
	CategoryInternal PointCategory = "internal"
	CategoryExternal PointCategory = "external"
	CategoryEvents   PointCategory = "events"
)

// CategoryForCertificate maps a certificate type to its ledger category.
func CategoryForCertificate(t CertificateType) PointCategory {
	if t == CertExternal {
		return CategoryExternal
	}
	return CategoryInternal
}

// PointEntry is one immutable record in the append-only points ledger.
// At most one entry exists per certificate, enforced by uniqueness on
// CertificateID.
type PointEntry struct {
	ID            string
	CertificateID string
	HouseID       string
	MemberID      string
	Category      PointCategory
	Points        int
	Year          int
	Month         int // 1-12
	CreatedAt     time.Time
}

// HouseTotal is a house's point sum for a leaderboard.
type HouseTotal struct {
	HouseID string
	Name    string
	Color   string
	Points  int
}

// MemberTotal is a member's lifetime point sum within a house.
type MemberTotal struct {
	MemberID string
	Name     string
	Points   int
}

// MonthlyPoint is one bucket of a monthly trend series.
type MonthlyPoint struct {
	Year   int
	Month  int
	Label  string // "Jan 2026"
	Points int
}

// MonthLabel renders the chart label for a year/month bucket.
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
}

// PointsFilter narrows ledger aggregation queries. Nil fields mean no
// filter on that dimension.
type PointsFilter struct {
	Year  *int
	Month *int
}

// Validate checks that the filter is internally consistent.
func (f *PointsFilter) Validate() error {
	var violations []string
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		violations = append(violations, "month must be between 1 and 12")
	}
	if f.Month != nil && f.Year == nil {
		violations = append(violations, "a month filter requires a year filter")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
