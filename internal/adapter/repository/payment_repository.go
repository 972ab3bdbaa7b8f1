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

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrDuplicate {
			return translated
		}
		r.logger.Error("Failed to create payment",
			zap.String("request_id", payment.RequestID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		First(&payment, "payment_order_id = ?", orderID).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get payment by order ID",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if translated := translateError(err); translated == repository.ErrNotFound {
			return nil, translated
		}
		r.logger.Error("Failed to get latest payment for request",
			zap.String("request_id", requestID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	err := r.db.WithContext(ctx).Save(payment).Error
	if err != nil {
		r.logger.Error("Failed to update payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("tenant_id = ?", tenantID)
	return r.list(ctx, base, opts, "tenant", tenantID.String())
}

func (r *paymentRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("landlord_id = ?", landlordID)
	return r.list(ctx, base, opts, "landlord", landlordID.String())
}

func (r *paymentRepository) ListAll(ctx context.Context, opts *query.Options) ([]*model.Payment, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Payment{})
	return r.list(ctx, base, opts, "all", "")
}

func (r *paymentRepository) list(_ context.Context, base *gorm.DB, opts *query.Options, scope, scopeID string) ([]*model.Payment, int64, error) {
	base = applySearch(base, opts.SearchTerm, "payment_order_id", "transaction_id", "status")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count payments",
			zap.String("scope", scope),
			zap.String("scope_id", scopeID),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var payments []*model.Payment
	listQuery := applySort(base, opts.Sort, "created_at DESC")
	listQuery = applyPagination(listQuery, opts)
	if err := listQuery.Find(&payments).Error; err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("scope", scope),
			zap.String("scope_id", scopeID),
			zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
