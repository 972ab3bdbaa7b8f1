package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

type requestRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new rental request repository
func NewRequestRepository(db *gorm.DB, logger *zap.Logger) repository.RequestRepository {
	return &requestRepository{db: db, logger: logger}
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		r.logger.Error("Failed to create rental request",
			zap.String("listing_id", request.ListingID.String()),
			zap.String("tenant_id", request.TenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	var request model.Request
	err := r.db.WithContext(ctx).
		Preload("Listing").
		Preload("Tenant").
		First(&request, "id = ?", id).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get rental request",
			zap.String("request_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

func (r *requestRepository) ExistsPending(ctx context.Context, listingID, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Request{}).
		Where("listing_id = ? AND tenant_id = ? AND status = ?", listingID, tenantID, model.RequestStatusPending).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to check for pending request",
			zap.String("listing_id", listingID.String()),
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return count > 0, nil
}

func (r *requestRepository) Update(ctx context.Context, request *model.Request) error {
	err := r.db.WithContext(ctx).Save(request).Error
	if err != nil {
		r.logger.Error("Failed to update rental request",
			zap.String("request_id", request.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (r *requestRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Request{}).
		Where("tenant_id = ?", tenantID)
	base = applySearch(base, opts.SearchTerm, "message", "status")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count tenant requests",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	var requests []*model.Request
	listQuery := applySort(base, opts.Sort, "created_at DESC")
	listQuery = applyPagination(listQuery, opts)
	if err := listQuery.Preload("Listing").Find(&requests).Error; err != nil {
		r.logger.Error("Failed to list tenant requests",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}

func (r *requestRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Request{}).
		Joins("JOIN listings ON listings.id = requests.listing_id").
		Where("listings.landlord_id = ?", landlordID)
	base = applySearch(base, opts.SearchTerm, "requests.message", "requests.status", "listings.location")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count landlord requests",
			zap.String("landlord_id", landlordID.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	var requests []*model.Request
	listQuery := applySort(base, opts.Sort, "requests.created_at DESC")
	listQuery = applyPagination(listQuery, opts)
	if err := listQuery.Preload("Listing").Preload("Tenant").Find(&requests).Error; err != nil {
		r.logger.Error("Failed to list landlord requests",
			zap.String("landlord_id", landlordID.String()),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}
