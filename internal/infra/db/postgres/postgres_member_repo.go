package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// Ensure memberRepo implements repository.MemberRepository
var _ repository.MemberRepository = (*memberRepo)(nil)

type memberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *memberRepo {
	return &memberRepo{pool: pool}
}

const memberColumns = `id, first_name, last_name, email, legacy, COALESCE(legacy_barcode,''), created_at`

func (r *memberRepo) Save(ctx context.Context, tx repository.Tx, m *model.Member) error {
	const q = `
INSERT INTO members (id, first_name, last_name, email, legacy, legacy_barcode, created_at)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7)
ON CONFLICT (id) DO UPDATE SET
  first_name=$2, last_name=$3, email=$4, legacy=$5, legacy_barcode=NULLIF($6,'');`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.FirstName, m.LastName, m.Email, m.Legacy, m.LegacyBarcode, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *memberRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Member, error) {
	return r.queryOne(ctx, tx, `SELECT `+memberColumns+` FROM members WHERE id=$1;`, id)
}

func (r *memberRepo) FindByBarcode(ctx context.Context, tx repository.Tx, barcode string) (*model.Member, error) {
	return r.queryOne(ctx, tx, `SELECT `+memberColumns+` FROM members WHERE legacy_barcode=$1;`, barcode)
}

func (r *memberRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Member, error) {
	const q = `
SELECT id, first_name, last_name, email, legacy, COALESCE(legacy_barcode,''), created_at
  FROM members
 ORDER BY last_name, first_name
 OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Member
	for rows.Next() {
		m := &model.Member{}
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Legacy, &m.LegacyBarcode, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *memberRepo) CountMembers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM members;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *memberRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM members WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...interface{}) (*model.Member, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	m := &model.Member{}
	if err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Legacy, &m.LegacyBarcode, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return m, nil
}
