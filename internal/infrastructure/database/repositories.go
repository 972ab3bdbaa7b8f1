package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/basafinder/basafinder-backend/internal/adapter/repository"
	domainRepo "github.com/basafinder/basafinder-backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Request domainRepo.RequestRepository
	Payment domainRepo.PaymentRepository
	Listing domainRepo.ListingRepository
	User    domainRepo.UserRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Request: repository.NewRequestRepository(db, logger),
		Payment: repository.NewPaymentRepository(db, logger),
		Listing: repository.NewListingRepository(db, logger),
		User:    repository.NewUserRepository(db, logger),
	}
}
