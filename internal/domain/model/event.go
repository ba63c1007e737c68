package model

import (
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"

	"github.com/google/uuid"
)

// Event is a door-controlled happening. Ref carries the external reference
// code printed on posters and ticket links; terminals may send either the
// internal ID or that code.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Ref       string     `json:"ref,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	Location  string     `json:"location,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewEvent(id, title, ref string, startsAt *time.Time, location string) (*Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if title == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Event{
		ID:        id,
		Title:     title,
		Ref:       ref,
		StartsAt:  startsAt,
		Location:  location,
		CreatedAt: time.Now(),
	}, nil
}
