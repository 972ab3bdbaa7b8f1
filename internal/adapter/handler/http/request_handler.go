package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/usecase"
)

type RequestHandler struct {
	service *usecase.RequestService
	logger  *zap.Logger
}

func NewRequestHandler(service *usecase.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{service: service, logger: logger}
}

// Create handles POST /request.
func (h *RequestHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input usecase.CreateRequestInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequestWrap(err, "Validation failed"))
	}

	request, err := h.service.Create(c.Request().Context(), &input, actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusCreated, "Rental request created successfully", request)
}

// ListForTenant handles GET /request/tenant.
func (h *RequestHandler) ListForTenant(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	opts := query.FromValues(c.QueryParams())
	requests, meta, err := h.service.ListByTenant(c.Request().Context(), actor, opts)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respondList(c, "Rental requests retrieved successfully", requests, meta)
}

// ListForLandlord handles GET /request/landlord.
func (h *RequestHandler) ListForLandlord(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	opts := query.FromValues(c.QueryParams())
	requests, meta, err := h.service.ListByLandlord(c.Request().Context(), actor, opts)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respondList(c, "Rental requests retrieved successfully", requests, meta)
}

// GetByID handles GET /request/:id.
func (h *RequestHandler) GetByID(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request ID format"))
	}

	request, err := h.service.GetByID(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Rental request retrieved successfully", request)
}

// UpdateStatusInput is the landlord's decision payload.
type UpdateStatusInput struct {
	Status              model.RequestStatus `json:"status" validate:"required"`
	LandlordPhoneNumber string              `json:"landlord_phone_number,omitempty"`
}

// UpdateStatus handles PATCH /request/:id/status.
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request ID format"))
	}

	var input UpdateStatusInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequestWrap(err, "Validation failed"))
	}

	request, err := h.service.UpdateStatus(c.Request().Context(), id, input.Status, input.LandlordPhoneNumber, actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Rental request status updated successfully", request)
}

// UpdatePaymentStatusInput sets the payment axis of a request.
type UpdatePaymentStatusInput struct {
	PaymentStatus model.RequestPaymentStatus `json:"payment_status" validate:"required"`
}

// UpdatePaymentStatus handles PATCH /request/:id/payment.
func (h *RequestHandler) UpdatePaymentStatus(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request ID format"))
	}

	var input UpdatePaymentStatusInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequestWrap(err, "Validation failed"))
	}

	request, err := h.service.UpdatePaymentStatus(c.Request().Context(), id, input.PaymentStatus, actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Payment status updated successfully", request)
}
