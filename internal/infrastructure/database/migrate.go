package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.Request{},
		&model.Payment{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle
// automatically.
func createCustomIndexes(db *gorm.DB) error {
	// At most one pending request per tenant per listing; decided
	// requests don't block a new one.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_request_per_listing_tenant ON requests (listing_id, tenant_id) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_requests_tenant_created ON requests (tenant_id, created_at DESC)`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_request_created ON payments (request_id, created_at DESC)`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}
