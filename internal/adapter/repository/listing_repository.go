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

type listingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB, logger *zap.Logger) repository.ListingRepository {
	return &listingRepository{db: db, logger: logger}
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get listing",
			zap.String("listing_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

func (r *listingRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Update("is_available", available)
	if result.Error != nil {
		r.logger.Error("Failed to update listing availability",
			zap.String("listing_id", id.String()),
			zap.Bool("available", available),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update listing availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
