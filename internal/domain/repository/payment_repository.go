package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
)

// PaymentRepository persists payment attempts. Payments are never
// deleted; failed attempts stay behind as an audit trail.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	// GetByOrderID finds a payment by the gateway's order id, the
	// correlation key used to match callbacks back to payments.
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	// GetLatestByRequestID returns the most recent payment attempt for
	// a request. A request may accumulate several attempts; only the
	// latest one is live.
	GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error)
	ListAll(ctx context.Context, opts *query.Options) ([]*model.Payment, int64, error)
}
