package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

// RequestService owns the rental-request lifecycle: creation
// preconditions, status transitions and their authorization rules.
type RequestService struct {
	requests repository.RequestRepository
	listings repository.ListingRepository
	users    repository.UserRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewRequestService(
	requests repository.RequestRepository,
	listings repository.ListingRepository,
	users repository.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		listings: listings,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateRequestInput is the tenant-supplied payload for a new rental
// request. The tenant id is never taken from the payload; it always
// comes from the authenticated actor.
type CreateRequestInput struct {
	ListingID           uuid.UUID `json:"listing_id" validate:"required"`
	Message             string    `json:"message" validate:"required"`
	MoveInDate          time.Time `json:"move_in_date" validate:"required"`
	RentalDuration      int       `json:"rental_duration" validate:"required,min=1"`
	SpecialRequirements string    `json:"special_requirements,omitempty"`
	AgreedToTerms       bool      `json:"agreed_to_terms" validate:"required,eq=true"`
}

// Create persists a new pending request for the actor against an
// available listing. At most one pending request per (listing,
// tenant) pair may exist; the check here closes the common path and
// the storage layer's partial unique index closes the race window.
func (s *RequestService) Create(ctx context.Context, input *CreateRequestInput, actor Actor) (*model.Request, error) {
	if actor.Role != model.RoleTenant {
		return nil, apperror.Forbidden("Only tenants can create rental requests")
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Listing not found")
		}
		return nil, apperror.Internal("failed to load listing", err)
	}

	if !listing.IsAvailable {
		return nil, apperror.Conflict("This property is no longer available for rent")
	}

	exists, err := s.requests.ExistsPending(ctx, listing.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal("failed to check existing requests", err)
	}
	if exists {
		return nil, apperror.Conflict("You already have a pending request for this property")
	}

	request := &model.Request{
		ID:                  uuid.New(),
		ListingID:           listing.ID,
		TenantID:            actor.ID,
		Message:             input.Message,
		MoveInDate:          input.MoveInDate,
		RentalDuration:      input.RentalDuration,
		SpecialRequirements: input.SpecialRequirements,
		AgreedToTerms:       input.AgreedToTerms,
		Status:              model.RequestStatusPending,
		PaymentStatus:       model.RequestPaymentPending,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if apperror.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("You already have a pending request for this property")
		}
		return nil, apperror.Internal("failed to create request", err)
	}

	s.logger.Info("Rental request created",
		zap.String("request_id", request.ID.String()),
		zap.String("listing_id", listing.ID.String()),
		zap.String("tenant_id", actor.ID.String()))

	if landlord, lerr := s.users.GetByID(ctx, listing.LandlordID); lerr == nil {
		notify(ctx, s.logger, s.notifier, landlord.Email,
			"New Rental Request",
			fmt.Sprintf("You have received a new rental request for your property at %s.", listing.Location))
	} else {
		s.logger.Warn("Could not resolve landlord for notification",
			zap.String("landlord_id", listing.LandlordID.String()),
			zap.Error(lerr))
	}

	return request, nil
}

// UpdateStatus moves a pending request to approved or rejected. Only
// the landlord owning the listing or an admin may transition it, and
// re-transitioning a request that already left pending is a conflict.
// On approval the landlord's phone number is stored, falling back to
// the acting landlord's profile phone when none is supplied.
func (s *RequestService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequestStatus, landlordPhoneNumber string, actor Actor) (*model.Request, error) {
	if status != model.RequestStatusApproved && status != model.RequestStatusRejected {
		return nil, apperror.BadRequest("Status must be approved or rejected")
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
			return nil, apperror.NotFound("Associated listing not found")
		}
		return nil, apperror.Internal("failed to load listing", err)
	}

	if !canAccess(actor, model.RoleLandlord, listing.LandlordID) {
		return nil, apperror.Forbidden("You are not authorized to update this request")
	}

	if request.Status != model.RequestStatusPending {
		return nil, apperror.Conflict(fmt.Sprintf("Request has already been %s", request.Status))
	}

	request.Status = status
	if status == model.RequestStatusApproved {
		phone := landlordPhoneNumber
		if phone == "" {
			if owner, uerr := s.users.GetByID(ctx, actor.ID); uerr == nil {
				phone = owner.PhoneNumber
			}
		}
		if phone != "" {
			request.LandlordPhoneNumber = &phone
		}
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperror.Internal("failed to update request", err)
	}

	s.logger.Info("Rental request status updated",
		zap.String("request_id", request.ID.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.ID.String()))

	if tenant, terr := s.users.GetByID(ctx, request.TenantID); terr == nil {
		subject := "Rental Request Rejected"
		body := "Your rental request has been rejected."
		if status == model.RequestStatusApproved {
			subject = "Rental Request Approved"
			body = "Your rental request has been approved. You can now proceed with payment."
		}
		notify(ctx, s.logger, s.notifier, tenant.Email, subject,
			fmt.Sprintf("%s Property: %s", body, listing.Location))
	}

	return request, nil
}

// UpdatePaymentStatus sets the payment axis of an approved request.
// Only the owning tenant or an admin may set it; marking a request
// paid flips the listing to unavailable and notifies the landlord.
func (s *RequestService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus model.RequestPaymentStatus, actor Actor) (*model.Request, error) {
	switch paymentStatus {
	case model.RequestPaymentPending, model.RequestPaymentPaid, model.RequestPaymentFailed:
	default:
		return nil, apperror.BadRequest("Unknown payment status")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, apperror.Internal("failed to load request", err)
	}

	if !canAccess(actor, model.RoleTenant, request.TenantID) {
		return nil, apperror.Forbidden("You are not authorized to update this payment")
	}

	if request.Status != model.RequestStatusApproved {
		return nil, apperror.BadRequest("Cannot process payment for a request that is not approved")
	}

	request.PaymentStatus = paymentStatus
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperror.Internal("failed to update request", err)
	}

	if paymentStatus == model.RequestPaymentPaid {
		if err := s.listings.SetAvailability(ctx, request.ListingID, false); err != nil {
			return nil, apperror.Internal("failed to update listing availability", err)
		}
		s.notifyLandlordPaid(ctx, request.ListingID)
	}

	return request, nil
}

// notifyLandlordPaid is the shared payment-received notification used
// both by the manual payment-status path and the orchestrator.
func (s *RequestService) notifyLandlordPaid(ctx context.Context, listingID uuid.UUID) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		s.logger.Warn("Could not load listing for payment notification",
			zap.String("listing_id", listingID.String()),
			zap.Error(err))
		return
	}
	landlord, err := s.users.GetByID(ctx, listing.LandlordID)
	if err != nil {
		s.logger.Warn("Could not resolve landlord for payment notification",
			zap.String("landlord_id", listing.LandlordID.String()),
			zap.Error(err))
		return
	}
	notify(ctx, s.logger, s.notifier, landlord.Email,
		"Payment Received for Rental",
		fmt.Sprintf("The tenant has completed payment for your property at %s.", listing.Location))
}

// GetByID reads one request with role-scoped visibility: tenants see
// their own, landlords see requests against their own listings,
// admins see any.
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID, actor Actor) (*model.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, apperror.Internal("failed to load request", err)
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleTenant:
		if request.TenantID != actor.ID {
			return nil, apperror.Forbidden("You are not authorized to view this request")
		}
	case model.RoleLandlord:
		listing, lerr := s.listings.GetByID(ctx, request.ListingID)
		if lerr != nil || listing.LandlordID != actor.ID {
			return nil, apperror.Forbidden("You are not authorized to view this request")
		}
	default:
		return nil, apperror.Forbidden("You are not authorized to view this request")
	}

	return request, nil
}

// ListByTenant lists the actor's own requests.
func (s *RequestService) ListByTenant(ctx context.Context, actor Actor, opts *query.Options) ([]*model.Request, query.Meta, error) {
	requests, total, err := s.requests.ListByTenant(ctx, actor.ID, opts)
	if err != nil {
		return nil, query.Meta{}, apperror.Internal("failed to list requests", err)
	}
	return requests, query.NewMeta(opts.Page, opts.Limit, total), nil
}

// ListByLandlord lists requests against the actor's own listings.
func (s *RequestService) ListByLandlord(ctx context.Context, actor Actor, opts *query.Options) ([]*model.Request, query.Meta, error) {
	requests, total, err := s.requests.ListByLandlord(ctx, actor.ID, opts)
	if err != nil {
		return nil, query.Meta{}, apperror.Internal("failed to list requests", err)
	}
	return requests, query.NewMeta(opts.Page, opts.Limit, total), nil
}
