// File: internal/usecase/member_uc.go
package usecase

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
)

// Compile-time check
var _ MemberUseCase = (*memberUC)(nil)

// MemberDetail bundles a member with their credentials and memberships for
// the admin detail view.
type MemberDetail struct {
	Member      *model.Member       `json:"member"`
	Cards       []*model.MemberCard `json:"cards"`
	Memberships []*model.Membership `json:"memberships"`
}

// MemberUseCase exposes member and card operations used by admin flows.
type MemberUseCase interface {
	Create(ctx context.Context, firstName, lastName, email string, legacy bool, legacyBarcode string) (*model.Member, error)
	Update(ctx context.Context, m *model.Member) (*model.Member, error)
	Get(ctx context.Context, id string) (*MemberDetail, error)
	List(ctx context.Context, offset, limit int) ([]*model.Member, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error

	IssueCard(ctx context.Context, memberID string) (*model.MemberCard, error)
	RevokeCard(ctx context.Context, cardID string) error
}

type memberUC struct {
	members repository.MemberRepository
	cards   repository.MemberCardRepository
	subs    repository.MembershipRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewMemberUseCase(members repository.MemberRepository, cards repository.MemberCardRepository, subs repository.MembershipRepository, tm repository.TransactionManager, logger *zerolog.Logger) *memberUC {
	return &memberUC{members: members, cards: cards, subs: subs, tm: tm, log: logger}
}

func (u *memberUC) Create(ctx context.Context, firstName, lastName, email string, legacy bool, legacyBarcode string) (*model.Member, error) {
	defer logging.TraceDuration(u.log, "MemberUC.Create")()
	m, err := model.NewMember("", firstName, lastName, email, legacy, legacyBarcode)
	if err != nil {
		return nil, err
	}
	if err := u.members.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *memberUC) Update(ctx context.Context, m *model.Member) (*model.Member, error) {
	defer logging.TraceDuration(u.log, "MemberUC.Update")()
	existing, err := u.members.FindByID(ctx, repository.NoTX, m.ID)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = existing.CreatedAt
	if err := u.members.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *memberUC) Get(ctx context.Context, id string) (*MemberDetail, error) {
	defer logging.TraceDuration(u.log, "MemberUC.Get")()
	m, err := u.members.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	cards, err := u.cards.ListByMember(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	subs, err := u.subs.ListByMember(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	return &MemberDetail{Member: m, Cards: cards, Memberships: subs}, nil
}

func (u *memberUC) List(ctx context.Context, offset, limit int) ([]*model.Member, error) {
	return u.members.List(ctx, repository.NoTX, offset, limit)
}

func (u *memberUC) Count(ctx context.Context) (int, error) {
	return u.members.CountMembers(ctx, repository.NoTX)
}

func (u *memberUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "MemberUC.Delete")()
	return u.members.Delete(ctx, repository.NoTX, id)
}

// IssueCard mints a new card for the member inside a transaction so the
// member existence check and the insert stay consistent.
func (u *memberUC) IssueCard(ctx context.Context, memberID string) (*model.MemberCard, error) {
	defer logging.TraceDuration(u.log, "MemberUC.IssueCard")()

	var card *model.MemberCard
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if _, err := u.members.FindByID(ctx, tx, memberID); err != nil {
			return err
		}
		c, err := model.NewMemberCard(memberID, "")
		if err != nil {
			return err
		}
		if err := u.cards.Save(ctx, tx, c); err != nil {
			return err
		}
		card = c
		return nil
	})
	return card, err
}

func (u *memberUC) RevokeCard(ctx context.Context, cardID string) error {
	defer logging.TraceDuration(u.log, "MemberUC.RevokeCard")()
	return u.cards.Revoke(ctx, repository.NoTX, cardID)
}
