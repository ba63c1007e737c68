package repository

import (
	"context"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// -----------------------------
// Member cards
// -----------------------------

type MemberCardRepository interface {
	Save(ctx context.Context, tx Tx, c *model.MemberCard) error
	// FindByToken matches the card secret exactly; tokens are unique.
	FindByToken(ctx context.Context, tx Tx, token string) (*model.MemberCard, error)
	ListByMember(ctx context.Context, tx Tx, memberID string) ([]*model.MemberCard, error)
	Revoke(ctx context.Context, tx Tx, id string) error
}
