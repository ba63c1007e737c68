package repository

import (
	"context"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// -----------------------------
// Members
// -----------------------------

type MemberRepository interface {
	Save(ctx context.Context, tx Tx, m *model.Member) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Member, error)
	// FindByBarcode matches the Wally-era numeric barcode exactly.
	FindByBarcode(ctx context.Context, tx Tx, barcode string) (*model.Member, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Member, error)
	CountMembers(ctx context.Context, tx Tx) (int, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
