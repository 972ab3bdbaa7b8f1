package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/provider"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
)

// MockRequestRepository is a mock implementation of repository.RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *model.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestRepository) ExistsPending(ctx context.Context, listingID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, listingID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, request *model.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error) {
	args := m.Called(ctx, tenantID, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Request), args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Request, int64, error) {
	args := m.Called(ctx, landlordID, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Request), args.Get(1).(int64), args.Error(2)
}

// MockPaymentRepository is a mock implementation of repository.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Payment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error) {
	args := m.Called(ctx, tenantID, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, opts *query.Options) ([]*model.Payment, int64, error) {
	args := m.Called(ctx, landlordID, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) ListAll(ctx context.Context, opts *query.Options) ([]*model.Payment, int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Payment), args.Get(1).(int64), args.Error(2)
}

// MockListingRepository is a mock implementation of repository.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockGateway is a mock implementation of provider.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetAuthToken(ctx context.Context) (*provider.AuthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AuthToken), args.Error(1)
}

func (m *MockGateway) CreateCheckout(ctx context.Context, req *provider.CheckoutRequest) (*provider.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutResponse), args.Error(1)
}

func (m *MockGateway) VerifyOrder(ctx context.Context, orderID string) (*provider.VerificationResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.VerificationResult), args.Error(1)
}
