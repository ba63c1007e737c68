package repository

import (
	"context"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// -----------------------------
// Checkins (append-only audit log)
// -----------------------------

type CheckinRepository interface {
	// Append inserts one audit row. The row is immutable; there is no
	// update or delete. An insert hitting the allowed-uniqueness index
	// returns domain.ErrDuplicateAdmission.
	Append(ctx context.Context, tx Tx, c *model.Checkin) error
	// Lock serializes concurrent decisions for one (event, member) pair
	// for the lifetime of the surrounding transaction. It must be called
	// inside a transaction; with NoTX it is a no-op for stores that cannot
	// lock.
	Lock(ctx context.Context, tx Tx, eventID, memberID string) error
	// HasAllowed reports whether an allowed row already exists for the
	// (event, member) pair.
	HasAllowed(ctx context.Context, tx Tx, eventID, memberID string) (bool, error)
	ListByEvent(ctx context.Context, tx Tx, eventID string, offset, limit int) ([]*model.Checkin, error)
	CountByResult(ctx context.Context, tx Tx) (map[model.CheckinResult]int, error)
	// CountByEventResult breaks the audit log down for one event.
	CountByEventResult(ctx context.Context, tx Tx, eventID string) (map[model.CheckinResult]int, error)
}
