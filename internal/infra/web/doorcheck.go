// File: internal/infra/web/doorcheck.go
package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
	"github.com/ledvelvet/doorcheck/internal/infra/metrics"
	"github.com/ledvelvet/doorcheck/internal/infra/redis"
	"github.com/ledvelvet/doorcheck/internal/usecase"
)

type doorcheckRequest struct {
	EventID  string `json:"event_id"`
	EventRef string `json:"event_ref"`
	QR       string `json:"qr"`
	DeviceID string `json:"device_id"`
}

type memberView struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Legacy    bool   `json:"legacy"`
}

type doorcheckResponse struct {
	OK      bool        `json:"ok"`
	Allowed bool        `json:"allowed"`
	Reason  string      `json:"reason"`
	Method  string      `json:"method"`
	Member  *memberView `json:"member,omitempty"`
}

// handleDoorcheck is the terminal-facing endpoint. Business denials are
// HTTP 200 with allowed=false; non-2xx means the scan never reached a
// decision and the terminal should retry or alert.
func (s *Server) handleDoorcheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	if s.door.Key == "" {
		// Refusing every scan beats silently admitting everyone.
		l.Error().Msg("door key is not configured")
		writeError(w, http.StatusInternalServerError, "door key not configured")
		return
	}
	if subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Door-Key")), []byte(s.door.Key)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req doorcheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QR == "" {
		writeError(w, http.StatusBadRequest, "qr is required")
		return
	}

	if s.limiter != nil && s.door.ScanLimit > 0 {
		allowed, err := s.limiter.Allow(ctx, redis.DeviceScanKey(req.DeviceID), s.door.ScanLimit, s.door.ScanWindow)
		if err != nil {
			// Fail open: a broken limiter must not close the door.
			l.Warn().Err(err).Msg("scan rate limiter unavailable")
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	res, err := s.checkinUC.Scan(ctx, usecase.ScanRequest{
		EventID:  req.EventID,
		EventRef: req.EventRef,
		Code:     req.QR,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "event_id or event_ref is required")
		case errors.Is(err, domain.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		default:
			l.Error().Err(err).Msg("doorcheck scan failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	metrics.IncCheckin(resultOf(res), res.Reason, res.Method)
	metrics.ObserveScanLatency(float64(time.Since(start).Milliseconds()))

	if !res.Allowed && s.notifier != nil {
		go s.notifier.NotifyDenial(res.Event.Title, res.Reason, req.DeviceID)
	}

	resp := doorcheckResponse{
		OK:      true,
		Allowed: res.Allowed,
		Reason:  string(res.Reason),
		Method:  string(res.Method),
	}
	if res.Member != nil {
		resp.Member = &memberView{
			ID:        res.Member.ID,
			FirstName: res.Member.FirstName,
			LastName:  res.Member.LastName,
			Email:     res.Member.Email,
			Legacy:    res.Member.Legacy,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func resultOf(res *usecase.ScanResult) model.CheckinResult {
	if res.Allowed {
		return model.CheckinAllowed
	}
	return model.CheckinDenied
}
