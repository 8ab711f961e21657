package domain

import "time"

// AuditEntry records one mutation for the admin audit trail.
type AuditEntry struct {
	ID         string
	ActorID    string
	ActorName  string
	Action     string // "SUBMIT", "APPROVE", "REJECT", "EDIT", "DELETE", "COMMENT", ...
	EntityType string // "certificate", "principal", "house"
	EntityID   string
	Status     string // "ALLOWED", "DENIED"
	Detail     *string
	CreatedAt  time.Time
}

// AuditFilter narrows audit list queries.
type AuditFilter struct {
	ActorID *string
	Action  *string
	Page    PageRequest
}
