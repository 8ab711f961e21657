package repository

import (
	"context"
	"database/sql"

	"housepoints/internal/domain"
)

type HouseRepo struct {
	db *sql.DB
}

func NewHouseRepo(db *sql.DB) *HouseRepo {
	return &HouseRepo{db: db}
}

func (r *HouseRepo) Create(ctx context.Context, h *domain.House) (*domain.House, error) {
	if h.ID == "" {
		h.ID = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO houses (id, name, color, coordinator_id) VALUES (?, ?, ?, ?)`,
		h.ID, h.Name, h.Color, nullString(h.CoordinatorID))
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, h.ID)
}

func (r *HouseRepo) GetByID(ctx context.Context, id string) (*domain.House, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, coordinator_id, created_at FROM houses WHERE id = ?`, id)
	return scanHouse(row)
}

func (r *HouseRepo) List(ctx context.Context) ([]domain.House, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, coordinator_id, created_at FROM houses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var houses []domain.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, *h)
	}
	return houses, rows.Err()
}

func (r *HouseRepo) SetCoordinator(ctx context.Context, houseID string, facultyID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE houses SET coordinator_id = ? WHERE id = ?`,
		nullString(facultyID), houseID)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("house %s not found", houseID)
	}
	return nil
}

func scanHouse(row rowScanner) (*domain.House, error) {
	var h domain.House
	var coordinator sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.Color, &coordinator, &h.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	h.CoordinatorID = fromNullString(coordinator)
	return &h, nil
}
