package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// Ensure memberCardRepo implements repository.MemberCardRepository
var _ repository.MemberCardRepository = (*memberCardRepo)(nil)

type memberCardRepo struct {
	pool *pgxpool.Pool
}

func NewMemberCardRepo(pool *pgxpool.Pool) *memberCardRepo {
	return &memberCardRepo{pool: pool}
}

func (r *memberCardRepo) Save(ctx context.Context, tx repository.Tx, c *model.MemberCard) error {
	const q = `
INSERT INTO member_cards (id, member_id, token, revoked, issued_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET revoked=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.MemberID, c.Token, c.Revoked, c.IssuedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// token collision
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *memberCardRepo) FindByToken(ctx context.Context, tx repository.Tx, token string) (*model.MemberCard, error) {
	const q = `
SELECT id, member_id, token, revoked, issued_at
  FROM member_cards WHERE token=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, token)
	if err != nil {
		return nil, err
	}
	c := &model.MemberCard{}
	if err := row.Scan(&c.ID, &c.MemberID, &c.Token, &c.Revoked, &c.IssuedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *memberCardRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string) ([]*model.MemberCard, error) {
	const q = `
SELECT id, member_id, token, revoked, issued_at
  FROM member_cards
 WHERE member_id=$1
 ORDER BY issued_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, memberID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.MemberCard
	for rows.Next() {
		c := &model.MemberCard{}
		if err := rows.Scan(&c.ID, &c.MemberID, &c.Token, &c.Revoked, &c.IssuedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *memberCardRepo) Revoke(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE member_cards SET revoked=TRUE WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
