package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

// UserRepository resolves landlord/tenant contact details.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
