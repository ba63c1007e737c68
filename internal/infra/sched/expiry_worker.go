// File: internal/infra/sched/expiry_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/infra/metrics"
	"github.com/ledvelvet/doorcheck/internal/usecase"
)

// ExpiryWorker periodically flips lapsed memberships to expired via the
// use case, and refreshes the membership totals gauge.
type ExpiryWorker struct {
	interval time.Duration
	subUC    usecase.MembershipUseCase
	statsUC  usecase.StatsUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC usecase.MembershipUseCase, statsUC usecase.StatsUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subUC:    subUC,
		statsUC:  statsUC,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ExpiryWorker) runCheck(ctx context.Context) {
	n, err := w.subUC.ExpireLapsed(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry worker error")
		return
	}
	if n > 0 {
		metrics.IncMembershipsExpired(n)
		w.log.Info().Int("count", n).Msg("lapsed memberships expired")
	}

	if _, memberships, _, err := w.statsUC.Totals(ctx); err == nil {
		metrics.SetMembershipsTotal(memberships)
	}
}
