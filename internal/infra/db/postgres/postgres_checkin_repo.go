package postgres

import (
	"context"
	"hash/fnv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// Ensure checkinRepo implements repository.CheckinRepository
var _ repository.CheckinRepository = (*checkinRepo)(nil)

type checkinRepo struct {
	pool *pgxpool.Pool
}

func NewCheckinRepo(pool *pgxpool.Pool) *checkinRepo {
	return &checkinRepo{pool: pool}
}

// Append inserts one immutable audit row. The partial unique index
// checkins_one_admission_idx (event_id, member_id WHERE result='allowed')
// backs the at-most-one-admission invariant at the storage layer; a 23505
// here means a concurrent terminal won the race.
func (r *checkinRepo) Append(ctx context.Context, tx repository.Tx, c *model.Checkin) error {
	const q = `
INSERT INTO checkins (id, event_id, member_id, result, reason, method, device_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8);`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.EventID, c.MemberID, c.Result, c.Reason, c.Method, c.DeviceID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAdmission
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// Lock takes a transaction-scoped advisory lock keyed on the (event,
// member) pair, serializing the duplicate-check read against concurrent
// inserts for the same pair.
func (r *checkinRepo) Lock(ctx context.Context, tx repository.Tx, eventID, memberID string) error {
	if tx == nil {
		return nil
	}
	_, err := execSQL(ctx, r.pool, tx, `SELECT pg_advisory_xact_lock($1);`, hashToInt64(eventID+"/"+memberID))
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *checkinRepo) HasAllowed(ctx context.Context, tx repository.Tx, eventID, memberID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM checkins
   WHERE event_id=$1 AND member_id=$2 AND result='allowed'
);`
	row, err := pickRow(ctx, r.pool, tx, q, eventID, memberID)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return ok, nil
}

func (r *checkinRepo) ListByEvent(ctx context.Context, tx repository.Tx, eventID string, offset, limit int) ([]*model.Checkin, error) {
	const q = `
SELECT id, event_id, member_id, result, reason, method, COALESCE(device_id,''), created_at
  FROM checkins
 WHERE event_id=$1
 ORDER BY id DESC
 OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, eventID, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Checkin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *checkinRepo) CountByResult(ctx context.Context, tx repository.Tx) (map[model.CheckinResult]int, error) {
	const q = `SELECT result, COUNT(*) FROM checkins GROUP BY result;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.CheckinResult]int)
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.CheckinResult(result)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *checkinRepo) CountByEventResult(ctx context.Context, tx repository.Tx, eventID string) (map[model.CheckinResult]int, error) {
	const q = `SELECT result, COUNT(*) FROM checkins WHERE event_id=$1 GROUP BY result;`
	rows, err := queryRows(ctx, r.pool, tx, q, eventID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.CheckinResult]int)
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.CheckinResult(result)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func scanCheckin(row pgx.Row) (*model.Checkin, error) {
	c := &model.Checkin{}
	var result, reason, method string
	if err := row.Scan(&c.ID, &c.EventID, &c.MemberID, &result, &reason, &method, &c.DeviceID, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Result = model.CheckinResult(result)
	c.Reason = model.CheckinReason(reason)
	c.Method = model.CheckinMethod(method)
	return c, nil
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}
