package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

// ListingRepository is the core's view of the listing store. The core
// consults listings and flips availability; full listing CRUD lives
// behind its own surface.
type ListingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// SetAvailability atomically updates the single is_available field.
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}
