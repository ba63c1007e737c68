//go:build !integration

package model

import (
	"testing"
	"time"
)

func TestClassifyCode(t *testing.T) {
	cases := []struct {
		code string
		want CheckinMethod
	}{
		{"40123456", MethodWallyBarcode},
		{"0", MethodWallyBarcode},
		{"a1b2c3d4", MethodLVQR},
		{"40123456x", MethodLVQR},
		{"4012 3456", MethodLVQR},
		{"ffeeddccbbaa99887766554433221100", MethodLVQR},
		{"", MethodLVQR},
	}
	for _, tc := range cases {
		if got := ClassifyCode(tc.code); got != tc.want {
			t.Errorf("ClassifyCode(%q) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestMembershipCoversDay(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("open-ended active covers any day", func(t *testing.T) {
		m := &Membership{Status: MembershipStatusActive, StartDate: day.AddDate(-1, 0, 0)}
		if !m.CoversDay(day) {
			t.Error("expected open-ended active membership to cover today")
		}
	})

	t.Run("end date today is inclusive", func(t *testing.T) {
		end := day
		m := &Membership{Status: MembershipStatusActive, EndDate: &end}
		if !m.CoversDay(day) {
			t.Error("expected membership ending today to still admit")
		}
	})

	t.Run("end date yesterday does not cover", func(t *testing.T) {
		end := day.AddDate(0, 0, -1)
		m := &Membership{Status: MembershipStatusActive, EndDate: &end}
		if m.CoversDay(day) {
			t.Error("expected lapsed membership not to admit")
		}
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		// End date stored at midnight, scan late in the evening of the same day.
		end := day
		m := &Membership{Status: MembershipStatusActive, EndDate: &end}
		scan := day.Add(23*time.Hour + 59*time.Minute)
		if !m.CoversDay(scan) {
			t.Error("expected calendar-date comparison, not time-of-day")
		}
	})

	t.Run("pending and expired never cover", func(t *testing.T) {
		for _, st := range []MembershipStatus{MembershipStatusPending, MembershipStatusExpired} {
			m := &Membership{Status: st}
			if m.CoversDay(day) {
				t.Errorf("status %s should not admit", st)
			}
		}
	})
}

func TestNewMembershipValidation(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	endBefore := start.AddDate(0, 0, -1)

	if _, err := NewMembership("", "member-1", MembershipStatusActive, start, nil); err != nil {
		t.Fatalf("valid membership rejected: %v", err)
	}
	if _, err := NewMembership("", "", MembershipStatusActive, start, nil); err == nil {
		t.Error("expected error for empty member id")
	}
	if _, err := NewMembership("", "member-1", MembershipStatus("bogus"), start, nil); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := NewMembership("", "member-1", MembershipStatusActive, start, &endBefore); err == nil {
		t.Error("expected error for end date before start date")
	}
}

func TestNewMemberCard(t *testing.T) {
	c1, err := NewMemberCard("member-1", "")
	if err != nil {
		t.Fatalf("NewMemberCard: %v", err)
	}
	c2, _ := NewMemberCard("member-1", "")
	if c1.Token == "" || c1.Token == c2.Token {
		t.Error("expected distinct non-empty generated tokens")
	}
	if _, err := NewMemberCard("", ""); err == nil {
		t.Error("expected error for empty member id")
	}
}
