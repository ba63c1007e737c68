// File: internal/usecase/event_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/logging"
)

// Compile-time check
var _ EventUseCase = (*eventUC)(nil)

// EventUseCase exposes event CRUD for the admin API.
type EventUseCase interface {
	Create(ctx context.Context, title, ref string, startsAt *time.Time, location string) (*model.Event, error)
	Update(ctx context.Context, e *model.Event) (*model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventUC struct {
	events repository.EventRepository
	log    *zerolog.Logger
}

func NewEventUseCase(events repository.EventRepository, logger *zerolog.Logger) *eventUC {
	return &eventUC{events: events, log: logger}
}

func (u *eventUC) Create(ctx context.Context, title, ref string, startsAt *time.Time, location string) (*model.Event, error) {
	defer logging.TraceDuration(u.log, "EventUC.Create")()
	e, err := model.NewEvent("", title, ref, startsAt, location)
	if err != nil {
		return nil, err
	}
	if err := u.events.Save(ctx, repository.NoTX, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *eventUC) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	defer logging.TraceDuration(u.log, "EventUC.Update")()
	existing, err := u.events.FindByID(ctx, repository.NoTX, e.ID)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = existing.CreatedAt
	if err := u.events.Save(ctx, repository.NoTX, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (u *eventUC) Get(ctx context.Context, id string) (*model.Event, error) {
	return u.events.FindByID(ctx, repository.NoTX, id)
}

func (u *eventUC) List(ctx context.Context) ([]*model.Event, error) {
	return u.events.List(ctx, repository.NoTX)
}

func (u *eventUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "EventUC.Delete")()
	return u.events.Delete(ctx, repository.NoTX, id)
}
