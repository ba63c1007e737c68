package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type CheckinResult string

const (
	CheckinAllowed CheckinResult = "allowed"
	CheckinDenied  CheckinResult = "denied"
)

// CheckinMethod names the identity namespace the scanned code belongs to.
// The two historical systems produce visually distinct codes: Wally issued
// numeric barcodes, LedVelvet cards carry opaque alphanumeric secrets.
type CheckinMethod string

const (
	MethodLVQR         CheckinMethod = "lv_qr"
	MethodWallyBarcode CheckinMethod = "wally_barcode"
)

type CheckinReason string

const (
	ReasonInvalidBarcode   CheckinReason = "invalid_barcode"
	ReasonInvalidQR        CheckinReason = "invalid_qr"
	ReasonCardRevoked      CheckinReason = "card_revoked"
	ReasonMemberNotFound   CheckinReason = "member_not_found"
	ReasonAlreadyCheckedIn CheckinReason = "already_checked_in"
	ReasonLegacyOK         CheckinReason = "legacy_ok"
	ReasonMembershipActive CheckinReason = "membership_active"
	ReasonNotMemberActive  CheckinReason = "not_member_active"
)

// Checkin is one immutable audit row per door-scan decision. MemberID is
// nil when the code never resolved to a member. Rows are never updated or
// deleted.
type Checkin struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	MemberID  *string       `json:"member_id,omitempty"`
	Result    CheckinResult `json:"result"`
	Reason    CheckinReason `json:"reason"`
	Method    CheckinMethod `json:"method"`
	DeviceID  string        `json:"device_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewCheckin stamps the row with a ULID: the log is append-only and
// time-ordered, so lexicographic IDs keep it sorted for free.
func NewCheckin(eventID string, memberID *string, result CheckinResult, reason CheckinReason, method CheckinMethod, deviceID string) *Checkin {
	now := time.Now()
	return &Checkin{
		ID:        ulid.Make().String(),
		EventID:   eventID,
		MemberID:  memberID,
		Result:    result,
		Reason:    reason,
		Method:    method,
		DeviceID:  deviceID,
		CreatedAt: now,
	}
}

// ClassifyCode sniffs the scanned string's shape: all decimal digits means
// a Wally-era barcode, anything else is a card secret. This is a format
// sniff, not a cryptographic distinction.
func ClassifyCode(code string) CheckinMethod {
	if code == "" {
		return MethodLVQR
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return MethodLVQR
		}
	}
	return MethodWallyBarcode
}
