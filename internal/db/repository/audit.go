package repository

import (
	"context"
	"database/sql"
	"time"

	"housepoints/internal/domain"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, actor_name, action, entity_type, entity_id, status, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.ActorName, e.Action, e.EntityType, e.EntityID,
		e.Status, nullString(e.Detail), time.Now().UTC())
	return mapDBError(err)
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	where := `WHERE 1=1`
	var args []interface{}
	if filter.ActorID != nil {
		where += ` AND actor_id = ?`
		args = append(args, *filter.ActorID)
	}
	if filter.Action != nil {
		where += ` AND action = ?`
		args = append(args, *filter.Action)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, actor_name, action, entity_type, entity_id, status, detail, created_at
		 FROM audit_log `+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action,
			&e.EntityType, &e.EntityID, &e.Status, &detail, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Detail = fromNullString(detail)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
