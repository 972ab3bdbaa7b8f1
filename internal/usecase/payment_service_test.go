package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/provider"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

type paymentServiceMocks struct {
	payments *MockPaymentRepository
	requests *MockRequestRepository
	listings *MockListingRepository
	users    *MockUserRepository
	gateway  *MockGateway
	notifier *MockNotifier
}

func newPaymentService(t *testing.T) (*PaymentService, *paymentServiceMocks) {
	t.Helper()
	m := &paymentServiceMocks{
		payments: new(MockPaymentRepository),
		requests: new(MockRequestRepository),
		listings: new(MockListingRepository),
		users:    new(MockUserRepository),
		gateway:  new(MockGateway),
		notifier: new(MockNotifier),
	}
	callbacks := CallbackURLs{
		ReturnURL: "https://basafinder.example.com/payments/callback",
		CancelURL: "https://basafinder.example.com/payments/cancel",
	}
	svc := NewPaymentService(m.payments, m.requests, m.listings, m.users, m.gateway, m.notifier, callbacks, zap.NewNop())
	return svc, m
}

func approvedRequestFixture(listingID, tenantID uuid.UUID) *model.Request {
	return &model.Request{
		ID:            uuid.New(),
		ListingID:     listingID,
		TenantID:      tenantID,
		Status:        model.RequestStatusApproved,
		PaymentStatus: model.RequestPaymentPending,
	}
}

func TestPaymentService_Initiate(t *testing.T) {
	ctx := context.Background()
	landlordID := uuid.New()
	tenantID := uuid.New()
	actor := Actor{ID: tenantID, Role: model.RoleTenant}

	listingFixture := func() *model.Listing {
		return &model.Listing{
			ID:          uuid.New(),
			Location:    "House 12, Road 5, Dhanmondi",
			Rent:        decimal.NewFromInt(5000),
			LandlordID:  landlordID,
			IsAvailable: true,
		}
	}

	t.Run("successful initiation moves payment to processing", func(t *testing.T) {
		svc, m := newPaymentService(t)
		listing := listingFixture()
		request := approvedRequestFixture(listing.ID, tenantID)

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		m.users.On("GetByID", ctx, tenantID).Return(&model.User{
			ID: tenantID, Name: "Rahim", Email: "rahim@example.com", PhoneNumber: "01712345678",
		}, nil)
		m.payments.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)
		m.gateway.On("CreateCheckout", ctx, mock.MatchedBy(func(req *provider.CheckoutRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(5000)) &&
				req.Currency == "BDT" &&
				req.CustomerName == "Rahim"
		})).Return(&provider.CheckoutResponse{
			CheckoutURL: "https://sandbox.shurjopayment.com/checkout/abc",
			SPOrderID:   "SP12345",
		}, nil)
		m.payments.On("Update", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)
		m.requests.On("Update", ctx, request).Return(nil)

		result, err := svc.Initiate(ctx, request.ID.String(), actor, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, "SP12345", result.PaymentID)
		assert.Equal(t, "https://sandbox.shurjopayment.com/checkout/abc", result.PaymentURL)
		require.NotNil(t, request.PaymentOrderID)
		assert.Equal(t, "SP12345", *request.PaymentOrderID)
	})

	t.Run("callback urls carry the internal request id", func(t *testing.T) {
		svc, m := newPaymentService(t)
		listing := listingFixture()
		request := approvedRequestFixture(listing.ID, tenantID)

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		m.users.On("GetByID", ctx, tenantID).Return(&model.User{ID: tenantID}, nil)
		m.payments.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)

		var captured *provider.CheckoutRequest
		m.gateway.On("CreateCheckout", ctx, mock.AnythingOfType("*provider.CheckoutRequest")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*provider.CheckoutRequest)
			}).
			Return(&provider.CheckoutResponse{CheckoutURL: "https://gw/checkout", SPOrderID: "SP1"}, nil)
		m.payments.On("Update", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)
		m.requests.On("Update", ctx, request).Return(nil)

		_, err := svc.Initiate(ctx, request.ID.String(), actor, "")
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Contains(t, captured.ReturnURL, "internal_request_id="+request.ID.String())
		assert.Contains(t, captured.CancelURL, "internal_request_id="+request.ID.String())
	})

	t.Run("malformed request id is a bad request", func(t *testing.T) {
		svc, _ := newPaymentService(t)
		_, err := svc.Initiate(ctx, "not-a-uuid", actor, "")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})

	t.Run("missing request is not found", func(t *testing.T) {
		svc, m := newPaymentService(t)
		id := uuid.New()
		m.requests.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

		_, err := svc.Initiate(ctx, id.String(), actor, "")
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})

	t.Run("non-approved request is rejected", func(t *testing.T) {
		svc, m := newPaymentService(t)
		request := approvedRequestFixture(uuid.New(), tenantID)
		request.Status = model.RequestStatusPending
		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)

		_, err := svc.Initiate(ctx, request.ID.String(), actor, "")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})

	t.Run("already paid request is rejected", func(t *testing.T) {
		svc, m := newPaymentService(t)
		request := approvedRequestFixture(uuid.New(), tenantID)
		request.PaymentStatus = model.RequestPaymentPaid
		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)

		_, err := svc.Initiate(ctx, request.ID.String(), actor, "")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})

	t.Run("gateway failure leaves an auditable failed payment", func(t *testing.T) {
		svc, m := newPaymentService(t)
		listing := listingFixture()
		request := approvedRequestFixture(listing.ID, tenantID)

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		m.users.On("GetByID", ctx, tenantID).Return(&model.User{ID: tenantID}, nil)
		m.payments.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)
		m.gateway.On("CreateCheckout", ctx, mock.AnythingOfType("*provider.CheckoutRequest")).
			Return(nil, &provider.ProviderError{Code: "API_ERROR", Message: "gateway unreachable"})

		var failed *model.Payment
		m.payments.On("Update", ctx, mock.MatchedBy(func(p *model.Payment) bool {
			failed = p
			return p.Status == model.PaymentStatusFailed
		})).Return(nil)

		_, err := svc.Initiate(ctx, request.ID.String(), actor, "")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
		require.NotNil(t, failed)
		assert.Equal(t, model.PaymentStatusFailed, failed.Status)
		// Request keeps no live order id from the failed attempt.
		assert.Nil(t, request.PaymentOrderID)
	})
}

func TestPaymentService_HandleSuccess(t *testing.T) {
	ctx := context.Background()
	landlordID := uuid.New()
	tenantID := uuid.New()
	orderID := "SP12345"

	fixtures := func() (*model.Listing, *model.Request, *model.Payment) {
		listing := &model.Listing{
			ID:          uuid.New(),
			Location:    "House 12, Road 5, Dhanmondi",
			Rent:        decimal.NewFromInt(5000),
			LandlordID:  landlordID,
			IsAvailable: true,
		}
		request := approvedRequestFixture(listing.ID, tenantID)
		oid := orderID
		request.PaymentOrderID = &oid
		payment := &model.Payment{
			ID:             uuid.New(),
			RequestID:      request.ID,
			TenantID:       tenantID,
			LandlordID:     landlordID,
			ListingID:      listing.ID,
			Amount:         decimal.NewFromInt(5000),
			Currency:       "BDT",
			Status:         model.PaymentStatusProcessing,
			PaymentOrderID: &oid,
		}
		return listing, request, payment
	}

	successVerification := &provider.VerificationResult{
		SPCode:       "1000",
		SPMessage:    "Success",
		OrderID:      orderID,
		BankTrxID:    "TRX987",
		Amount:       5000,
		CurrencyType: "BDT",
	}

	t.Run("verified success completes payment, marks request paid, flips listing", func(t *testing.T) {
		svc, m := newPaymentService(t)
		listing, request, payment := fixtures()

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.gateway.On("VerifyOrder", ctx, orderID).Return(successVerification, nil)
		m.payments.On("GetByOrderID", ctx, orderID).Return(payment, nil)
		m.payments.On("Update", ctx, payment).Return(nil)
		m.requests.On("Update", ctx, request).Return(nil)
		m.listings.On("SetAvailability", ctx, listing.ID, false).Return(nil)
		m.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		m.users.On("GetByID", ctx, landlordID).Return(&model.User{ID: landlordID, Email: "landlord@example.com"}, nil)
		m.notifier.On("Send", ctx, "landlord@example.com", "Payment Received for Rental", mock.Anything).Return(nil)

		result, err := svc.HandleSuccess(ctx, request.ID.String(), orderID)
		require.NoError(t, err)

		assert.Equal(t, model.PaymentStatusCompleted, result.Payment.Status)
		assert.Equal(t, model.RequestPaymentPaid, result.Request.PaymentStatus)
		require.NotNil(t, result.Payment.TransactionID)
		assert.Equal(t, "TRX987", *result.Payment.TransactionID)
		require.NotNil(t, result.Payment.PaymentInfo)
		assert.True(t, result.Payment.PaymentInfo.Amount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, "BDT", result.Payment.PaymentInfo.Currency)
		require.NotNil(t, result.Request.PaymentInfo)
		m.listings.AssertCalled(t, "SetAvailability", ctx, listing.ID, false)
		m.notifier.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("completion is idempotent", func(t *testing.T) {
		svc, m := newPaymentService(t)
		listing, request, payment := fixtures()
		_ = listing

		request.PaymentStatus = model.RequestPaymentPaid
		payment.Status = model.PaymentStatusCompleted

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.gateway.On("VerifyOrder", ctx, orderID).Return(successVerification, nil)
		m.payments.On("GetByOrderID", ctx, orderID).Return(payment, nil)

		result, err := svc.HandleSuccess(ctx, request.ID.String(), orderID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, result.Payment.Status)
		assert.Equal(t, model.RequestPaymentPaid, result.Request.PaymentStatus)

		// No re-applied side effects on an already-completed payment.
		m.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.listings.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
		m.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("order id mismatch is rejected before verification", func(t *testing.T) {
		svc, m := newPaymentService(t)
		_, request, _ := fixtures()

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)

		_, err := svc.HandleSuccess(ctx, request.ID.String(), "SP-other")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
		m.gateway.AssertNotCalled(t, "VerifyOrder", mock.Anything, mock.Anything)
	})

	t.Run("verification failure mutates nothing", func(t *testing.T) {
		svc, m := newPaymentService(t)
		_, request, _ := fixtures()

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.gateway.On("VerifyOrder", ctx, orderID).Return(&provider.VerificationResult{
			SPCode:    "1005",
			SPMessage: "Transaction declined",
		}, nil)

		_, err := svc.HandleSuccess(ctx, request.ID.String(), orderID)
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "Transaction declined")
		m.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing payment record is not found", func(t *testing.T) {
		svc, m := newPaymentService(t)
		_, request, _ := fixtures()

		m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
		m.gateway.On("VerifyOrder", ctx, orderID).Return(successVerification, nil)
		m.payments.On("GetByOrderID", ctx, orderID).Return(nil, repository.ErrNotFound)

		_, err := svc.HandleSuccess(ctx, request.ID.String(), orderID)
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})

	t.Run("malformed request id is a bad request", func(t *testing.T) {
		svc, _ := newPaymentService(t)
		_, err := svc.HandleSuccess(ctx, "abc123", orderID)
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})
}

func TestPaymentService_GetByRequestID(t *testing.T) {
	ctx := context.Background()
	landlordID := uuid.New()
	tenantID := uuid.New()

	listing := &model.Listing{ID: uuid.New(), LandlordID: landlordID, Rent: decimal.NewFromInt(5000)}
	request := approvedRequestFixture(listing.ID, tenantID)
	payment := &model.Payment{ID: uuid.New(), RequestID: request.ID, TenantID: tenantID, LandlordID: landlordID}

	tests := []struct {
		name     string
		actor    Actor
		wantCode string
	}{
		{name: "owning tenant may read", actor: Actor{ID: tenantID, Role: model.RoleTenant}},
		{name: "owning landlord may read", actor: Actor{ID: landlordID, Role: model.RoleLandlord}},
		{name: "admin may read", actor: Actor{ID: uuid.New(), Role: model.RoleAdmin}},
		{name: "other tenant is forbidden", actor: Actor{ID: uuid.New(), Role: model.RoleTenant}, wantCode: apperror.CodeForbidden},
		{name: "other landlord is forbidden", actor: Actor{ID: uuid.New(), Role: model.RoleLandlord}, wantCode: apperror.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newPaymentService(t)
			m.requests.On("GetByID", ctx, request.ID).Return(request, nil)
			m.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
			m.payments.On("GetLatestByRequestID", ctx, request.ID).Return(payment, nil)

			got, err := svc.GetByRequestID(ctx, request.ID.String(), tt.actor)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payment.ID, got.ID)
		})
	}
}

func TestPaymentService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("returns raw verification result", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.gateway.On("VerifyOrder", ctx, "SP1").Return(&provider.VerificationResult{
			SPCode: "1000", SPMessage: "Success",
		}, nil)

		result, err := svc.Verify(ctx, "SP1")
		require.NoError(t, err)
		assert.True(t, result.IsSuccess())
	})

	t.Run("empty order id is a bad request", func(t *testing.T) {
		svc, _ := newPaymentService(t)
		_, err := svc.Verify(ctx, "")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})

	t.Run("gateway failure is wrapped", func(t *testing.T) {
		svc, m := newPaymentService(t)
		m.gateway.On("VerifyOrder", ctx, "SP1").
			Return(nil, &provider.ProviderError{Code: "API_ERROR", Message: "verification request failed"})

		_, err := svc.Verify(ctx, "SP1")
		assert.Equal(t, apperror.CodeBadRequest, apperror.CodeOf(err))
	})
}
