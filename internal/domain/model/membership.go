package model

import (
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusPending MembershipStatus = "pending"
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"
)

// Membership is a member's paid validity window. EndDate nil means
// open-ended. Admission for non-legacy members requires at least one
// active membership whose window covers today.
type Membership struct {
	ID        string           `json:"id"`
	MemberID  string           `json:"member_id"`
	Status    MembershipStatus `json:"status"`
	StartDate time.Time        `json:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewMembership(id, memberID string, status MembershipStatus, startDate time.Time, endDate *time.Time) (*Membership, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if memberID == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch status {
	case MembershipStatusPending, MembershipStatusActive, MembershipStatusExpired:
	default:
		return nil, domain.ErrInvalidArgument
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, domain.ErrInvalidArgument
	}
	return &Membership{
		ID:        id,
		MemberID:  memberID,
		Status:    status,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now(),
	}, nil
}

// CoversDay reports whether the membership admits on the given calendar
// day: status active and end date absent or on/after the day (inclusive).
func (m *Membership) CoversDay(day time.Time) bool {
	if m.Status != MembershipStatusActive {
		return false
	}
	if m.EndDate == nil {
		return true
	}
	return !dateOf(*m.EndDate).Before(dateOf(day))
}

// dateOf truncates to the UTC calendar date; admission decisions use
// date granularity, never time-of-day.
func dateOf(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
