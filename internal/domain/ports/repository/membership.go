package repository

import (
	"context"
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// -----------------------------
// Memberships
// -----------------------------

type MembershipRepository interface {
	Save(ctx context.Context, tx Tx, m *model.Membership) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Membership, error)
	ListByMember(ctx context.Context, tx Tx, memberID string) ([]*model.Membership, error)
	// HasActiveOn reports whether at least one active membership covers the
	// given calendar day (end date absent or >= day, inclusive). Overlapping
	// rows are fine; one match admits.
	HasActiveOn(ctx context.Context, tx Tx, memberID string, day time.Time) (bool, error)
	// ExpireLapsed flips active memberships whose end date passed before
	// day to expired, returning how many rows changed.
	ExpireLapsed(ctx context.Context, tx Tx, day time.Time) (int, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.MembershipStatus]int, error)
}
