package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get user",
			zap.String("user_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
