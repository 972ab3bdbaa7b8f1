package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/provider"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

// CallbackURLs are the base URLs the gateway redirects to after a
// checkout session ends. The internal request id is appended as a
// query parameter so the callback can be correlated.
type CallbackURLs struct {
	ReturnURL string
	CancelURL string
}

// PaymentService drives the gateway handshake and keeps the payment
// record, the request record and the listing consistent with the
// gateway's view of truth.
type PaymentService struct {
	payments  repository.PaymentRepository
	requests  repository.RequestRepository
	listings  repository.ListingRepository
	users     repository.UserRepository
	gateway   provider.Gateway
	notifier  Notifier
	callbacks CallbackURLs
	logger    *zap.Logger
}

func NewPaymentService(
	payments repository.PaymentRepository,
	requests repository.RequestRepository,
	listings repository.ListingRepository,
	users repository.UserRepository,
	gateway provider.Gateway,
	notifier Notifier,
	callbacks CallbackURLs,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		requests:  requests,
		listings:  listings,
		users:     users,
		gateway:   gateway,
		notifier:  notifier,
		callbacks: callbacks,
		logger:    logger,
	}
}

// InitiateResult is what the client needs to continue checkout.
type InitiateResult struct {
	PaymentURL string `json:"payment_url"`
	PaymentID  string `json:"payment_id"`
}

// Initiate opens a gateway checkout session for an approved request.
// The payment row is created first in pending; if any gateway step
// fails afterwards the row is marked failed and kept as an audit
// trail rather than rolled back. A tenant may re-initiate after a
// failed attempt; only the latest order id is live on the request.
func (s *PaymentService) Initiate(ctx context.Context, requestID string, actor Actor, clientIP string) (*InitiateResult, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid request ID format")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Rental request not found")
		}
		return nil, apperror.Internal("failed to load request", err)
	}

	if request.Status != model.RequestStatusApproved {
		return nil, apperror.BadRequest("Only approved requests can proceed to payment")
	}

	if request.PaymentStatus == model.RequestPaymentPaid {
		return nil, apperror.BadRequest("Payment has already been completed for this request")
	}

	listing, err := s.listings.GetByID(ctx, request.ListingID)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, apperror.Internal("failed to load listing", err)
	}

	tenant, err := s.users.GetByID(ctx, request.TenantID)
	if err != nil {
		return nil, apperror.Internal("failed to load tenant", err)
	}

	payment := &model.Payment{
		ID:         uuid.New(),
		RequestID:  request.ID,
		TenantID:   request.TenantID,
		LandlordID: listing.LandlordID,
		ListingID:  listing.ID,
		Amount:     listing.Rent,
		Currency:   "BDT",
		Status:     model.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperror.Internal("failed to create payment record", err)
	}

	checkout := &provider.CheckoutRequest{
		OrderID:          payment.ID.String(),
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		CustomerName:     valueOr(tenant.Name, "Tenant"),
		CustomerEmail:    valueOr(tenant.Email, "tenant@example.com"),
		CustomerPhone:    valueOr(tenant.PhoneNumber, "00000000000"),
		CustomerAddress:  valueOr(listing.Location, "N/A"),
		CustomerCity:     "N/A",
		CustomerPostCode: "0000",
		ReturnURL:        withRequestID(s.callbacks.ReturnURL, requestID),
		CancelURL:        withRequestID(s.callbacks.CancelURL, requestID),
		ClientIP:         valueOr(clientIP, "127.0.0.1"),
	}

	resp, err := s.gateway.CreateCheckout(ctx, checkout)
	if err != nil {
		payment.Status = model.PaymentStatusFailed
		if uerr := s.payments.Update(ctx, payment); uerr != nil {
			s.logger.Error("Failed to mark payment as failed",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(uerr))
		}
		s.logger.Error("Payment initiation failed",
			zap.String("request_id", requestID),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		return nil, apperror.BadRequestWrap(err, "Payment initiation failed")
	}

	orderID := resp.SPOrderID
	payment.PaymentOrderID = &orderID
	payment.Status = model.PaymentStatusProcessing
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, apperror.Internal("failed to update payment record", err)
	}

	request.PaymentOrderID = &orderID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperror.Internal("failed to update request record", err)
	}

	s.logger.Info("Payment initiated",
		zap.String("request_id", requestID),
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", orderID))

	return &InitiateResult{
		PaymentURL: resp.CheckoutURL,
		PaymentID:  orderID,
	}, nil
}

// CompletionResult is the terminal state after a verified payment.
type CompletionResult struct {
	Request *model.Request `json:"request"`
	Payment *model.Payment `json:"payment"`
}

// HandleSuccess verifies a checkout session with the gateway and, on
// verified success, completes the payment, marks the request paid and
// flips the listing to unavailable. Completion is idempotent:
// re-processing an already-completed payment returns the same
// terminal state without re-triggering side effects. On verification
// failure nothing is mutated.
func (s *PaymentService) HandleSuccess(ctx context.Context, requestID, orderID string) (*CompletionResult, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid request ID format")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, apperror.Internal("failed to load request", err)
	}

	// Defends against callback replay and mismatch across concurrent
	// payment attempts: only the order id live on the request counts.
	if request.PaymentOrderID == nil || *request.PaymentOrderID != orderID {
		return nil, apperror.BadRequest("Payment ID does not match the request")
	}

	verification, err := s.gateway.VerifyOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.BadRequestWrap(err, "Payment verification failed")
	}

	s.logger.Info("Gateway verification response",
		zap.String("order_id", orderID),
		zap.String("sp_code", string(verification.SPCode)),
		zap.String("sp_message", verification.SPMessage))

	if !verification.IsSuccess() {
		return nil, apperror.BadRequest(fmt.Sprintf("Payment failed: %s", verification.SPMessage))
	}

	payment, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Payment record not found")
		}
		return nil, apperror.Internal("failed to load payment", err)
	}

	if payment.Status == model.PaymentStatusCompleted && request.PaymentStatus == model.RequestPaymentPaid {
		s.logger.Info("Payment already completed, skipping re-processing",
			zap.String("order_id", orderID),
			zap.String("request_id", requestID))
		return &CompletionResult{Request: request, Payment: payment}, nil
	}

	info := model.PaymentInfo{
		Status:        "success",
		TransactionID: verification.BankTrxID,
		Amount:        decimal.NewFromFloat(verification.Amount),
		Currency:      valueOr(verification.CurrencyType, "BDT"),
		PaidAt:        time.Now().UTC(),
	}

	trxID := verification.BankTrxID
	payment.Status = model.PaymentStatusCompleted
	payment.TransactionID = &trxID
	payment.PaymentInfo = &info
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, apperror.Internal("failed to update payment record", err)
	}

	request.PaymentStatus = model.RequestPaymentPaid
	request.PaymentInfo = &info
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperror.Internal("failed to update request record", err)
	}

	if err := s.listings.SetAvailability(ctx, request.ListingID, false); err != nil {
		return nil, apperror.Internal("failed to update listing availability", err)
	}

	s.logger.Info("Payment completed",
		zap.String("order_id", orderID),
		zap.String("request_id", requestID),
		zap.String("transaction_id", trxID))

	if listing, lerr := s.listings.GetByID(ctx, request.ListingID); lerr == nil {
		if landlord, uerr := s.users.GetByID(ctx, listing.LandlordID); uerr == nil {
			notify(ctx, s.logger, s.notifier, landlord.Email,
				"Payment Received for Rental",
				fmt.Sprintf("The tenant has completed payment for your property at %s.", listing.Location))
		}
	}

	return &CompletionResult{Request: request, Payment: payment}, nil
}

// Verify re-checks an order with the gateway and returns the raw
// verification result. Used by the manual re-verification endpoint.
func (s *PaymentService) Verify(ctx context.Context, orderID string) (*provider.VerificationResult, error) {
	if orderID == "" {
		return nil, apperror.BadRequest("Payment order ID is required")
	}
	verification, err := s.gateway.VerifyOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.BadRequestWrap(err, "Payment verification failed")
	}
	return verification, nil
}

// GetByRequestID reads the latest payment for a request with the same
// ownership policy as request reads.
func (s *PaymentService) GetByRequestID(ctx context.Context, requestID string, actor Actor) (*model.Payment, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid request ID format")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, apperror.Internal("failed to load request", err)
	}

	listing, err := s.listings.GetByID(ctx, request.ListingID)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, apperror.Internal("failed to load listing", err)
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleTenant:
		if request.TenantID != actor.ID {
			return nil, apperror.Forbidden("You can only view payments for your own requests")
		}
	case model.RoleLandlord:
		if listing.LandlordID != actor.ID {
			return nil, apperror.Forbidden("You can only view payments for your own properties")
		}
	default:
		return nil, apperror.Forbidden("You are not authorized to view this payment")
	}

	payment, err := s.payments.GetLatestByRequestID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Payment not found for this request")
		}
		return nil, apperror.Internal("failed to load payment", err)
	}

	return payment, nil
}

// ListByUser lists payments visible to the actor: tenants their own,
// landlords those on their properties, admins all.
func (s *PaymentService) ListByUser(ctx context.Context, actor Actor, opts *query.Options) ([]*model.Payment, query.Meta, error) {
	var (
		payments []*model.Payment
		total    int64
		err      error
	)

	switch actor.Role {
	case model.RoleTenant:
		payments, total, err = s.payments.ListByTenant(ctx, actor.ID, opts)
	case model.RoleLandlord:
		payments, total, err = s.payments.ListByLandlord(ctx, actor.ID, opts)
	case model.RoleAdmin:
		payments, total, err = s.payments.ListAll(ctx, opts)
	default:
		return nil, query.Meta{}, apperror.Forbidden("You are not authorized to list payments")
	}
	if err != nil {
		return nil, query.Meta{}, apperror.Internal("failed to list payments", err)
	}

	return payments, query.NewMeta(opts.Page, opts.Limit, total), nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func withRequestID(base, requestID string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("internal_request_id", requestID)
	u.RawQuery = q.Encode()
	return u.String()
}
