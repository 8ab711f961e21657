package domain

import "time"

// Role classifies a principal's position in the organization.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// Permission is a fine-grained capability flag granted by an admin.
// Permissions are orthogonal to certificate approval, which is driven
// solely by role and coordinator scoping.
type Permission string

const (
	PermManageEvents   Permission = "manage_events"
	PermManageImports  Permission = "manage_imports"
	PermResetPasswords Permission = "reset_passwords"
)

// Principal represents an authenticated member of the organization.
// Principals are never deleted; they are deactivated instead.
type Principal struct {
	ID                   string
	Name                 string
	Role                 Role
	Permissions          []Permission
	HouseID              *string // house affiliation, nil for unaffiliated members
	CoordinatorOfHouseID *string // only meaningful for faculty
	Active               bool
	ExternalID           *string // IdP subject identifier (JWT `sub` claim)
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPermission reports whether the principal carries the given flag.
func (p *Principal) HasPermission(perm Permission) bool {
	for _, have := range p.Permissions {
		if have == perm {
			return true
		}
	}
	return false
}

// CoordinatesHouse reports whether the principal is the faculty
// coordinator of the given house.
func (p *Principal) CoordinatesHouse(houseID string) bool {
	return p.Role == RoleFaculty &&
		p.CoordinatorOfHouseID != nil && *p.CoordinatorOfHouseID == houseID
}

// CreatePrincipalRequest holds parameters for provisioning a principal.
type CreatePrincipalRequest struct {
	Name       string
	Role       Role
	HouseID    *string
	ExternalID *string
}

// Validate checks that the request is well-formed.
func (r *CreatePrincipalRequest) Validate() error {
	var violations []string
	if r.Name == "" {
		violations = append(violations, "name is required")
	}
	if r.Role == "" {
		r.Role = RoleStudent
	}
	if !r.Role.Valid() {
		violations = append(violations, "role must be 'student', 'faculty', or 'admin'")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
