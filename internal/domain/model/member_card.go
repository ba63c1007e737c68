package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"

	"github.com/google/uuid"
)

// MemberCard holds the opaque secret presented as a QR code at the door.
// A member can hold several cards over time; tokens are unique, so token
// lookup never needs ordering. Revoked cards never admit.
type MemberCard struct {
	ID       string    `json:"id"`
	MemberID string    `json:"member_id"`
	Token    string    `json:"token"`
	Revoked  bool      `json:"revoked"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewMemberCard mints a card with a fresh random token unless one is given
// (imports carry their own tokens).
func NewMemberCard(memberID, token string) (*MemberCard, error) {
	if memberID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if token == "" {
		token = newCardToken()
	}
	return &MemberCard{
		ID:       uuid.NewString(),
		MemberID: memberID,
		Token:    token,
		Revoked:  false,
		IssuedAt: time.Now(),
	}, nil
}

func newCardToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
