package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// Ensure membershipRepo implements repository.MembershipRepository
var _ repository.MembershipRepository = (*membershipRepo)(nil)

type membershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *membershipRepo {
	return &membershipRepo{pool: pool}
}

func (r *membershipRepo) Save(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	const q = `
INSERT INTO memberships (id, member_id, status, start_date, end_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  status=$3, start_date=$4, end_date=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.MemberID, m.Status, m.StartDate, m.EndDate, m.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *membershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	const q = `
SELECT id, member_id, status, start_date, end_date, created_at
  FROM memberships WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanMembership(row)
}

func (r *membershipRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string) ([]*model.Membership, error) {
	const q = `
SELECT id, member_id, status, start_date, end_date, created_at
  FROM memberships
 WHERE member_id=$1
 ORDER BY start_date DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, memberID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// HasActiveOn is the authoritative admission window check: at least one
// active row with end_date absent or on/after the given day. The date cast
// keeps the comparison at calendar-date granularity.
func (r *membershipRepo) HasActiveOn(ctx context.Context, tx repository.Tx, memberID string, day time.Time) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM memberships
   WHERE member_id=$1
     AND status='active'
     AND (end_date IS NULL OR end_date::date >= $2::date)
);`
	row, err := pickRow(ctx, r.pool, tx, q, memberID, day)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return ok, nil
}

func (r *membershipRepo) ExpireLapsed(ctx context.Context, tx repository.Tx, day time.Time) (int, error) {
	const q = `
UPDATE memberships
   SET status='expired'
 WHERE status='active'
   AND end_date IS NOT NULL
   AND end_date::date < $1::date;`
	tag, err := execSQL(ctx, r.pool, tx, q, day)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *membershipRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MembershipStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM memberships GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.MembershipStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.MembershipStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func scanMembership(row pgx.Row) (*model.Membership, error) {
	m := &model.Membership{}
	var status string
	if err := row.Scan(&m.ID, &m.MemberID, &status, &m.StartDate, &m.EndDate, &m.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	m.Status = model.MembershipStatus(status)
	return m, nil
}
