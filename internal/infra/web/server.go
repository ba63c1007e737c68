// File: internal/infra/web/server.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/config"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/usecase"
)

// DenialNotifier pushes a staff alert for a denied scan. Implementations
// must not block the request path.
type DenialNotifier interface {
	NotifyDenial(eventTitle string, reason model.CheckinReason, deviceID string)
}

// ScanLimiter throttles door terminals per device key.
type ScanLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Server wires the door endpoint and the admin API onto one router.
type Server struct {
	checkinUC    usecase.CheckinUseCase
	eventUC      usecase.EventUseCase
	memberUC     usecase.MemberUseCase
	membershipUC usecase.MembershipUseCase
	statsUC      usecase.StatsUseCase

	auth     *AuthManager
	adminKey string

	door     config.DoorConfig
	limiter  ScanLimiter
	notifier DenialNotifier

	log *zerolog.Logger
}

func NewServer(
	checkinUC usecase.CheckinUseCase,
	eventUC usecase.EventUseCase,
	memberUC usecase.MemberUseCase,
	membershipUC usecase.MembershipUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	adminKey string,
	door config.DoorConfig,
	limiter ScanLimiter,
	notifier DenialNotifier,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkinUC:    checkinUC,
		eventUC:      eventUC,
		memberUC:     memberUC,
		membershipUC: membershipUC,
		statsUC:      statsUC,
		auth:         auth,
		adminKey:     adminKey,
		door:         door,
		limiter:      limiter,
		notifier:     notifier,
		log:          logger,
	}
}

// Router builds the full route tree. The door endpoint sits outside the
// admin auth wall; terminals authenticate with the shared door key only.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post("/api/v1/doorcheck", s.handleDoorcheck)
	r.Post("/api/v1/auth/login", s.handleLogin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAdmin)

		r.Get("/stats", s.handleStats)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleEventsList)
			r.Post("/", s.handleEventCreate)
			r.Get("/{id}", s.handleEventGet)
			r.Put("/{id}", s.handleEventUpdate)
			r.Delete("/{id}", s.handleEventDelete)
			r.Get("/{id}/checkins", s.handleEventCheckins)
			r.Get("/{id}/stats", s.handleEventStats)
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", s.handleMembersList)
			r.Post("/", s.handleMemberCreate)
			r.Get("/{id}", s.handleMemberGet)
			r.Put("/{id}", s.handleMemberUpdate)
			r.Delete("/{id}", s.handleMemberDelete)
			r.Post("/{id}/cards", s.handleCardIssue)
			r.Post("/{id}/memberships", s.handleMembershipCreate)
		})

		r.Post("/cards/{id}/revoke", s.handleCardRevoke)
		r.Put("/memberships/{id}", s.handleMembershipUpdate)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}{OK: false, Error: msg})
}
