package model

import (
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"

	"github.com/google/uuid"
)

// Member is a person known to the club. Legacy members were grandfathered
// in from the Wally era and bypass the membership-window check at the door.
// LegacyBarcode holds their old numeric barcode, empty for everyone else.
type Member struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Legacy        bool      `json:"legacy"`
	LegacyBarcode string    `json:"legacy_barcode,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewMember(id, firstName, lastName, email string, legacy bool, legacyBarcode string) (*Member, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if firstName == "" && lastName == "" {
		return nil, domain.ErrInvalidArgument
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Member{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Legacy:        legacy,
		LegacyBarcode: legacyBarcode,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Member) IsZero() bool { return m == nil || m.ID == "" }
