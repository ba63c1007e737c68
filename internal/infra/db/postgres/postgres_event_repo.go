package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// Ensure eventRepo implements repository.EventRepository
var _ repository.EventRepository = (*eventRepo)(nil)

type eventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *eventRepo {
	return &eventRepo{pool: pool}
}

func (r *eventRepo) Save(ctx context.Context, tx repository.Tx, e *model.Event) error {
	const q = `
INSERT INTO events (id, title, ref, starts_at, location, created_at)
VALUES ($1,$2,NULLIF($3,''),$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  title=$2, ref=NULLIF($3,''), starts_at=$4, location=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, e.ID, e.Title, e.Ref, e.StartsAt, e.Location, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *eventRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Event, error) {
	const q = `
SELECT id, title, COALESCE(ref,''), starts_at, location, created_at
  FROM events WHERE id=$1;`
	return r.queryOne(ctx, tx, q, id)
}

func (r *eventRepo) FindByRef(ctx context.Context, tx repository.Tx, ref string) (*model.Event, error) {
	const q = `
SELECT id, title, COALESCE(ref,''), starts_at, location, created_at
  FROM events WHERE ref=$1;`
	return r.queryOne(ctx, tx, q, ref)
}

func (r *eventRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Event, error) {
	const q = `
SELECT id, title, COALESCE(ref,''), starts_at, location, created_at
  FROM events ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Event
	for rows.Next() {
		e := &model.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Ref, &e.StartsAt, &e.Location, &e.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *eventRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM events WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...interface{}) (*model.Event, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	e := &model.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Ref, &e.StartsAt, &e.Location, &e.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return e, nil
}
