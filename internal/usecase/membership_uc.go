// File: internal/usecase/membership_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
)

// Compile-time check
var _ MembershipUseCase = (*membershipUC)(nil)

// MembershipUseCase exposes membership window management for admin flows
// and the expiry sweep for the scheduler.
type MembershipUseCase interface {
	Create(ctx context.Context, memberID string, status model.MembershipStatus, startDate time.Time, endDate *time.Time) (*model.Membership, error)
	Update(ctx context.Context, m *model.Membership) (*model.Membership, error)
	ListByMember(ctx context.Context, memberID string) ([]*model.Membership, error)
	// ExpireLapsed marks active memberships whose window closed before
	// today as expired; returns the number of rows flipped.
	ExpireLapsed(ctx context.Context) (int, error)
}

type membershipUC struct {
	subs repository.MembershipRepository
	log  *zerolog.Logger

	now func() time.Time
}

func NewMembershipUseCase(subs repository.MembershipRepository, logger *zerolog.Logger) *membershipUC {
	return &membershipUC{subs: subs, log: logger, now: time.Now}
}

func (u *membershipUC) Create(ctx context.Context, memberID string, status model.MembershipStatus, startDate time.Time, endDate *time.Time) (*model.Membership, error) {
	defer logging.TraceDuration(u.log, "MembershipUC.Create")()
	m, err := model.NewMembership("", memberID, status, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if err := u.subs.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *membershipUC) Update(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	defer logging.TraceDuration(u.log, "MembershipUC.Update")()
	existing, err := u.subs.FindByID(ctx, repository.NoTX, m.ID)
	if err != nil {
		return nil, err
	}
	m.MemberID = existing.MemberID
	m.CreatedAt = existing.CreatedAt
	if err := u.subs.Save(ctx, repository.NoTX, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *membershipUC) ListByMember(ctx context.Context, memberID string) ([]*model.Membership, error) {
	return u.subs.ListByMember(ctx, repository.NoTX, memberID)
}

func (u *membershipUC) ExpireLapsed(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "MembershipUC.ExpireLapsed")()
	return u.subs.ExpireLapsed(ctx, repository.NoTX, dateOf(u.now()))
}
