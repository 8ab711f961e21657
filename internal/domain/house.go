package domain

import "time"

// House is a competing team that students and a faculty coordinator belong
// to. Each student belongs to at most one house; a faculty member
// coordinates at most one house at a time.
type House struct {
	ID            string
	Name          string
	Color         string
	CoordinatorID *string // faculty principal, nil until assigned
	CreatedAt     time.Time
}

// CreateHouseRequest holds parameters for creating a house.
type CreateHouseRequest struct {
	Name  string
	Color string
}

// Validate checks that the request is well-formed.
func (r *CreateHouseRequest) Validate() error {
	var violations []string
	if r.Name == "" {
		violations = append(violations, "house name is required")
	}
	if r.Color == "" {
		violations = append(violations, "house color is required")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
