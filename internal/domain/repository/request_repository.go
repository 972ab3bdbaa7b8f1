package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
)

// ErrNotFound is returned by all repositories when a record is absent.
// Adapters translate their storage layer's sentinel into this one so
// usecases never depend on gorm directly.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a storage-level uniqueness constraint
// rejects a write.
var ErrDuplicate = errors.New("duplicate record")

// RequestRepository persists rental requests.
type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	// ExistsPending reports whether the tenant already has a pending
	// request for the listing.
	ExistsPending(ctx context.Context, listingID, tenantID uuid.UUID) (bool, error)
	Update(ctx context.Context, request *model.Request) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error)
	// ListByLandlord lists requests against any listing owned by the
	// landlord.
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error)
}
