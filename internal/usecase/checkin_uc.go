// File: internal/usecase/checkin_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
)

// Compile-time check
var _ CheckinUseCase = (*checkinUC)(nil)

// ScanRequest is one door-scan attempt. EventID wins over EventRef when
// both are set; DeviceID is informational only.
type ScanRequest struct {
	EventID  string
	EventRef string
	Code     string
	DeviceID string
}

// ScanResult is a business decision, never an error: denials are expected
// outcomes and have already been written to the audit log when returned.
type ScanResult struct {
	Allowed bool
	Reason  model.CheckinReason
	Method  model.CheckinMethod
	Event   *model.Event
	Member  *model.Member
}

// CheckinUseCase runs the door admission decision chain and serves the
// audit log to the admin API.
type CheckinUseCase interface {
	Scan(ctx context.Context, req ScanRequest) (*ScanResult, error)
	ListByEvent(ctx context.Context, eventID string, offset, limit int) ([]*model.Checkin, error)
	StatsByEvent(ctx context.Context, eventID string) (map[model.CheckinResult]int, error)
}

type checkinUC struct {
	events      repository.EventRepository
	members     repository.MemberRepository
	cards       repository.MemberCardRepository
	memberships repository.MembershipRepository
	checkins    repository.CheckinRepository
	tm          repository.TransactionManager
	log         *zerolog.Logger

	// now is swappable so tests can pin the calendar date.
	now func() time.Time
}

func NewCheckinUseCase(
	events repository.EventRepository,
	members repository.MemberRepository,
	cards repository.MemberCardRepository,
	memberships repository.MembershipRepository,
	checkins repository.CheckinRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *checkinUC {
	return &checkinUC{
		events:      events,
		members:     members,
		cards:       cards,
		memberships: memberships,
		checkins:    checkins,
		tm:          tm,
		log:         logger,
		now:         time.Now,
	}
}

// Scan resolves the event, classifies the code, resolves the member and
// applies the admission policy. The policy runs in one transaction holding
// an advisory lock per (event, member), so two simultaneous scans of the
// same credential serialize instead of both passing the duplicate check.
// Exactly one audit row is written per attempt; if that insert fails the
// whole request fails.
func (uc *checkinUC) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	defer logging.TraceDuration(uc.log, "CheckinUC.Scan")()

	if req.Code == "" {
		return nil, domain.ErrInvalidArgument
	}

	event, err := uc.resolveEvent(ctx, req)
	if err != nil {
		return nil, err
	}

	method := model.ClassifyCode(req.Code)
	today := dateOf(uc.now())

	// Member resolution happens outside the transaction: it is read-only,
	// cache-served, and a failed resolution ends with a single audit
	// insert, atomic on its own.
	member, denied, err := uc.resolveMember(ctx, event, method, req)
	if err != nil {
		return nil, err
	}
	if denied != nil {
		denied.Event = event
		uc.logDecision(event, denied, req.DeviceID)
		return denied, nil
	}

	var result *ScanResult
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err = uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		// Serialize concurrent scans of the same credential at the same
		// event before the duplicate-check read.
		if err := uc.checkins.Lock(ctx, tx, event.ID, member.ID); err != nil {
			return err
		}

		dup, err := uc.checkins.HasAllowed(ctx, tx, event.ID, member.ID)
		if err != nil {
			return err
		}
		if dup {
			result, err = uc.deny(ctx, tx, event, &member.ID, model.ReasonAlreadyCheckedIn, method, req.DeviceID)
			if err != nil {
				return err
			}
			result.Member = member
			return nil
		}

		if member.Legacy {
			result, err = uc.allow(ctx, tx, event, member, model.ReasonLegacyOK, method, req.DeviceID)
			return err
		}

		active, err := uc.memberships.HasActiveOn(ctx, tx, member.ID, today)
		if err != nil {
			return err
		}
		if active {
			result, err = uc.allow(ctx, tx, event, member, model.ReasonMembershipActive, method, req.DeviceID)
			return err
		}

		result, err = uc.deny(ctx, tx, event, &member.ID, model.ReasonNotMemberActive, method, req.DeviceID)
		if err != nil {
			return err
		}
		result.Member = member
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateAdmission) {
		// Another terminal admitted the member between our duplicate check
		// and the insert; the unique index rejected the row and the
		// transaction rolled back. Record the denial in a fresh statement.
		result, err = uc.deny(ctx, repository.NoTX, event, &member.ID, model.ReasonAlreadyCheckedIn, method, req.DeviceID)
		if err != nil {
			return nil, err
		}
		result.Member = member
	}
	if err != nil {
		return nil, err
	}

	result.Event = event
	uc.logDecision(event, result, req.DeviceID)
	return result, nil
}

func (uc *checkinUC) logDecision(event *model.Event, res *ScanResult, deviceID string) {
	uc.log.Info().
		Str("event_id", event.ID).
		Str("method", string(res.Method)).
		Str("reason", string(res.Reason)).
		Bool("allowed", res.Allowed).
		Str("device_id", deviceID).
		Msg("door decision")
}

func (uc *checkinUC) ListByEvent(ctx context.Context, eventID string, offset, limit int) ([]*model.Checkin, error) {
	defer logging.TraceDuration(uc.log, "CheckinUC.ListByEvent")()
	return uc.checkins.ListByEvent(ctx, repository.NoTX, eventID, offset, limit)
}

// StatsByEvent breaks one event's audit log down by decision result.
func (uc *checkinUC) StatsByEvent(ctx context.Context, eventID string) (map[model.CheckinResult]int, error) {
	defer logging.TraceDuration(uc.log, "CheckinUC.StatsByEvent")()
	if _, err := uc.events.FindByID(ctx, repository.NoTX, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return uc.checkins.CountByEventResult(ctx, repository.NoTX, eventID)
}

// resolveEvent prefers the internal ID; the external reference code is the
// fallback for terminals configured with poster links. No audit row exists
// yet at this point, so failures here are caller errors, not denials.
func (uc *checkinUC) resolveEvent(ctx context.Context, req ScanRequest) (*model.Event, error) {
	switch {
	case req.EventID != "":
		e, err := uc.events.FindByID(ctx, repository.NoTX, req.EventID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return e, err
	case req.EventRef != "":
		e, err := uc.events.FindByRef(ctx, repository.NoTX, req.EventRef)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return e, err
	default:
		return nil, domain.ErrInvalidArgument
	}
}

// resolveMember returns either a member or a finished (audited) denial.
func (uc *checkinUC) resolveMember(ctx context.Context, event *model.Event, method model.CheckinMethod, req ScanRequest) (*model.Member, *ScanResult, error) {
	tx := repository.NoTX
	var memberID string

	switch method {
	case model.MethodWallyBarcode:
		m, err := uc.members.FindByBarcode(ctx, tx, req.Code)
		if errors.Is(err, domain.ErrNotFound) {
			denied, derr := uc.deny(ctx, tx, event, nil, model.ReasonInvalidBarcode, method, req.DeviceID)
			return nil, denied, derr
		}
		if err != nil {
			return nil, nil, err
		}
		memberID = m.ID
	default: // lv_qr
		card, err := uc.cards.FindByToken(ctx, tx, req.Code)
		if errors.Is(err, domain.ErrNotFound) {
			denied, derr := uc.deny(ctx, tx, event, nil, model.ReasonInvalidQR, method, req.DeviceID)
			return nil, denied, derr
		}
		if err != nil {
			return nil, nil, err
		}
		if card.Revoked {
			denied, derr := uc.deny(ctx, tx, event, &card.MemberID, model.ReasonCardRevoked, method, req.DeviceID)
			return nil, denied, derr
		}
		memberID = card.MemberID
	}

	member, err := uc.members.FindByID(ctx, tx, memberID)
	if errors.Is(err, domain.ErrNotFound) {
		// Data inconsistency: the credential points at a member row that is
		// gone. The audit row carries no member reference.
		denied, derr := uc.deny(ctx, tx, event, nil, model.ReasonMemberNotFound, method, req.DeviceID)
		return nil, denied, derr
	}
	if err != nil {
		return nil, nil, err
	}
	return member, nil, nil
}

// allow writes the allowed audit row and returns the positive decision. A
// unique-index violation on the insert surfaces as ErrDuplicateAdmission
// and is downgraded by the caller after the transaction rolls back.
func (uc *checkinUC) allow(ctx context.Context, tx repository.Tx, event *model.Event, member *model.Member, reason model.CheckinReason, method model.CheckinMethod, deviceID string) (*ScanResult, error) {
	rec := model.NewCheckin(event.ID, &member.ID, model.CheckinAllowed, reason, method, deviceID)
	if err := uc.checkins.Append(ctx, tx, rec); err != nil {
		return nil, err
	}
	return &ScanResult{Allowed: true, Reason: reason, Method: method, Member: member}, nil
}

// deny writes the denied audit row. Every denial branch passes through
// here exactly once.
func (uc *checkinUC) deny(ctx context.Context, tx repository.Tx, event *model.Event, memberID *string, reason model.CheckinReason, method model.CheckinMethod, deviceID string) (*ScanResult, error) {
	rec := model.NewCheckin(event.ID, memberID, model.CheckinDenied, reason, method, deviceID)
	if err := uc.checkins.Append(ctx, tx, rec); err != nil {
		return nil, err
	}
	return &ScanResult{Allowed: false, Reason: reason, Method: method}, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
