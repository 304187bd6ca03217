package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voyatra/tripbook/internal/domain"
)

type ResourceRepository interface {
	List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error)
}

type PGResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) ResourceRepository {
	return &PGResourceRepository{db: db}
}

const resourceColumns = `id, kind, code, name, source, destination, location, departure_time, arrival_time, total_units, available_units, price_cents, created_at, updated_at`

func (r *PGResourceRepository) List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resourceColumns+` FROM resources WHERE kind=$1 ORDER BY departure_time NULLS LAST, id`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

func (r *PGResourceRepository) GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error) {
	row := r.db.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE kind=$1 AND id=$2`, kind, id)
	res, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, kind, id)
		}
		return nil, err
	}
	return res, nil
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	if err := row.Scan(&res.ID, &res.Kind, &res.Code, &res.Name, &res.Source, &res.Destination, &res.Location, &res.DepartureTime, &res.ArrivalTime, &res.TotalUnits, &res.AvailableUnits, &res.PriceCents, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ ResourceRepository = (*PGResourceRepository)(nil)
