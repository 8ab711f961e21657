package repository

import (
	"context"
	"database/sql"
	"time"

	"housepoints/internal/domain"
)

type PrincipalRepo struct {
	db *sql.DB
}

func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

const principalColumns = `id, name, role, permissions, house_id, coordinator_of_house_id, active, external_id, created_at, updated_at`

func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (id, name, role, permissions, house_id, coordinator_of_house_id, active, external_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.Role), joinPermissions(p.Permissions),
		nullString(p.HouseID), nullString(p.CoordinatorOfHouseID),
		boolToInt(p.Active), nullString(p.ExternalID), now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PrincipalRepo) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	return scanPrincipal(row)
}

func (r *PrincipalRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE external_id = ?`, externalID)
	return scanPrincipal(row)
}

func (r *PrincipalRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principals`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM principals ORDER BY id LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, 0, err
		}
		principals = append(principals, *p)
	}
	return principals, total, rows.Err()
}

func (r *PrincipalRepo) ListByHouse(ctx context.Context, houseID string) ([]domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE house_id = ? ORDER BY id`, houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		principals = append(principals, *p)
	}
	return principals, rows.Err()
}

func (r *PrincipalRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx,
		`UPDATE principals SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), time.Now().UTC(), id)
}

func (r *PrincipalRepo) SetPermissions(ctx context.Context, id string, perms []domain.Permission) error {
	return r.exec(ctx,
		`UPDATE principals SET permissions = ?, updated_at = ? WHERE id = ?`,
		joinPermissions(perms), time.Now().UTC(), id)
}

func (r *PrincipalRepo) SetHouse(ctx context.Context, id string, houseID *string) error {
	return r.exec(ctx,
		`UPDATE principals SET house_id = ?, updated_at = ? WHERE id = ?`,
		nullString(houseID), time.Now().UTC(), id)
}

func (r *PrincipalRepo) SetCoordinatorOf(ctx context.Context, id string, houseID *string) error {
	return r.exec(ctx,
		`UPDATE principals SET coordinator_of_house_id = ?, updated_at = ? WHERE id = ?`,
		nullString(houseID), time.Now().UTC(), id)
}

// exec runs an UPDATE that must touch exactly one principal.
func (r *PrincipalRepo) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("principal not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrincipal(row rowScanner) (*domain.Principal, error) {
	var p domain.Principal
	var role, perms string
	var houseID, coordinatorOf, externalID sql.NullString
	var active int64
	if err := row.Scan(&p.ID, &p.Name, &role, &perms, &houseID, &coordinatorOf,
		&active, &externalID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	p.Role = domain.Role(role)
	p.Permissions = splitPermissions(perms)
	p.HouseID = fromNullString(houseID)
	p.CoordinatorOfHouseID = fromNullString(coordinatorOf)
	p.ExternalID = fromNullString(externalID)
	p.Active = active != 0
	return &p, nil
}
