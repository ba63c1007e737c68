// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, memberships, checkins, err := s.statsUC.Totals(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get totals")
		return
	}

	response := struct {
		TotalMembers      int                            `json:"total_members"`
		MembershipsByStat map[model.MembershipStatus]int `json:"memberships_by_status"`
		CheckinsByResult  map[model.CheckinResult]int    `json:"checkins_by_result"`
	}{
		TotalMembers:      members,
		MembershipsByStat: memberships,
		CheckinsByResult:  checkins,
	}
	writeJSON(w, http.StatusOK, response)
}

// ===== Events =====

type eventRequest struct {
	Title    string     `json:"title"`
	Ref      string     `json:"ref"`
	StartsAt *time.Time `json:"starts_at"`
	Location string     `json:"location"`
}

func (s *Server) handleEventsList(w http.ResponseWriter, r *http.Request) {
	events, err := s.eventUC.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Event `json:"data"`
	}{Data: events})
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	event, err := s.eventUC.Create(r.Context(), req.Title, req.Ref, req.StartsAt, req.Location)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleEventGet(w http.ResponseWriter, r *http.Request) {
	event, err := s.eventUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	event, err := model.NewEvent(chi.URLParam(r, "id"), req.Title, req.Ref, req.StartsAt, req.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.eventUC.Update(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update event")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleEventDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.eventUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEventCheckins(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	checkins, err := s.checkinUC.ListByEvent(r.Context(), chi.URLParam(r, "id"), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list checkins")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []*model.Checkin `json:"data"`
		Limit  int              `json:"limit"`
		Offset int              `json:"offset"`
	}{Data: checkins, Limit: limit, Offset: offset})
}

func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.checkinUC.StatsByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load event stats")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CheckinsByResult map[model.CheckinResult]int `json:"checkins_by_result"`
	}{CheckinsByResult: counts})
}

// ===== Members =====

type memberRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Legacy        bool   `json:"legacy"`
	LegacyBarcode string `json:"legacy_barcode"`
}

func (s *Server) handleMembersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	offset, limit := pageParams(r)

	members, err := s.memberUC.List(ctx, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	total, err := s.memberUC.Count(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count members")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []*model.Member `json:"data"`
		Total  int             `json:"total"`
		Limit  int             `json:"limit"`
		Offset int             `json:"offset"`
	}{Data: members, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	member, err := s.memberUC.Create(r.Context(), req.FirstName, req.LastName, req.Email, req.Legacy, req.LegacyBarcode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (s *Server) handleMemberGet(w http.ResponseWriter, r *http.Request) {
	detail, err := s.memberUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleMemberUpdate(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	member, err := model.NewMember(chi.URLParam(r, "id"), req.FirstName, req.LastName, req.Email, req.Legacy, req.LegacyBarcode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.memberUC.Update(r.Context(), member)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "member not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update member")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMemberDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.memberUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Cards =====

func (s *Server) handleCardIssue(w http.ResponseWriter, r *http.Request) {
	card, err := s.memberUC.IssueCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to issue card")
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleCardRevoke(w http.ResponseWriter, r *http.Request) {
	if err := s.memberUC.RevokeCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "card not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to revoke card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Memberships =====

type membershipRequest struct {
	Status    model.MembershipStatus `json:"status"`
	StartDate time.Time              `json:"start_date"`
	EndDate   *time.Time             `json:"end_date"`
}

func (s *Server) handleMembershipCreate(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := s.membershipUC.Create(r.Context(), chi.URLParam(r, "id"), req.Status, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "member not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create membership")
		}
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleMembershipUpdate(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub := &model.Membership{
		ID:        chi.URLParam(r, "id"),
		Status:    req.Status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	updated, err := s.membershipUC.Update(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "membership not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update membership")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// maxPageLimit caps list page sizes so a single request cannot pull a
// whole table.
const maxPageLimit = 500

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
