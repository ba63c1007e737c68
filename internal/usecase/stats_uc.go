// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase aggregates counts for the admin dashboard.
type StatsUseCase interface {
	Totals(ctx context.Context) (members int, memberships map[model.MembershipStatus]int, checkins map[model.CheckinResult]int, err error)
}

type statsUC struct {
	members  repository.MemberRepository
	subs     repository.MembershipRepository
	checkins repository.CheckinRepository
	log      *zerolog.Logger
}

func NewStatsUseCase(members repository.MemberRepository, subs repository.MembershipRepository, checkins repository.CheckinRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{members: members, subs: subs, checkins: checkins, log: logger}
}

func (u *statsUC) Totals(ctx context.Context) (int, map[model.MembershipStatus]int, map[model.CheckinResult]int, error) {
	defer logging.TraceDuration(u.log, "StatsUC.Totals")()

	members, err := u.members.CountMembers(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	subs, err := u.subs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	checkins, err := u.checkins.CountByResult(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	return members, subs, checkins, nil
}
