package repository

import (
	"context"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// -----------------------------
// Events
// -----------------------------

type EventRepository interface {
	Save(ctx context.Context, tx Tx, e *model.Event) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Event, error)
	// FindByRef resolves the external reference code terminals fall back to
	// when they don't know the internal ID.
	FindByRef(ctx context.Context, tx Tx, ref string) (*model.Event, error)
	List(ctx context.Context, tx Tx) ([]*model.Event, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
