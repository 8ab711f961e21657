// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"housepoints/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// mapDBError translates driver-level failures into domain errors. The
// UNIQUE index on point_entries.certificate_id is the storage-level
// enforcement of the one-entry-per-certificate invariant.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "point_entries.certificate_id") {
			return domain.ErrDuplicateEntry("a point entry already exists for this certificate")
		}
		return domain.ErrValidation("resource already exists")
	}
	return err
}

// nullString converts an optional string to its driver representation.
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func joinPermissions(perms []domain.Permission) string {
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func splitPermissions(s string) []domain.Permission {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	perms := make([]domain.Permission, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			perms = append(perms, domain.Permission(p))
		}
	}
	return perms
}
