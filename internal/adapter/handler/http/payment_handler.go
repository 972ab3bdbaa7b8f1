package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/usecase"
)

type PaymentHandler struct {
	service *usecase.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(service *usecase.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, logger: logger}
}

// Initiate handles POST /payments/initiate/:requestId.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Initiate(c.Request().Context(), c.Param("requestId"), actor, c.RealIP())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Payment initiated successfully", result)
}

// HandleCallback handles GET /payments/callback, the unauthenticated
// redirect target the gateway sends the tenant back to. The gateway is
// known to mangle the query string by appending its own parameters
// with a second "?", so the ids are recovered from the raw query, not
// from echo's parsed params.
func (h *PaymentHandler) HandleCallback(c echo.Context) error {
	rawQuery := c.Request().URL.RawQuery
	requestID, orderID := usecase.ParseCallbackIDs(rawQuery)

	h.logger.Info("Payment callback received",
		zap.String("request_id", requestID),
		zap.String("order_id", orderID),
		zap.String("raw_query", rawQuery))

	if requestID == "" || orderID == "" {
		return respondError(c, h.logger, apperror.BadRequest("Missing payment identifiers in callback"))
	}

	result, err := h.service.HandleSuccess(c.Request().Context(), requestID, orderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Payment completed successfully", result)
}

// VerifyInput identifies the gateway order to re-verify.
type VerifyInput struct {
	OrderID string `json:"order_id" validate:"required"`
}

// Verify handles POST /payments/verify.
func (h *PaymentHandler) Verify(c echo.Context) error {
	if _, err := actorFromContext(c); err != nil {
		return respondError(c, h.logger, err)
	}

	var input VerifyInput
	if err := c.Bind(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequest("Invalid request body"))
	}
	if err := c.Validate(&input); err != nil {
		return respondError(c, h.logger, apperror.BadRequestWrap(err, "Validation failed"))
	}

	result, err := h.service.Verify(c.Request().Context(), input.OrderID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Payment verification completed", result)
}

// GetByRequestID handles GET /payments/:requestId.
func (h *PaymentHandler) GetByRequestID(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payment, err := h.service.GetByRequestID(c.Request().Context(), c.Param("requestId"), actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respond(c, http.StatusOK, "Payment retrieved successfully", payment)
}

// ListMine handles GET /payments/tenant and GET /payments/landlord;
// the visible set follows the actor's role.
func (h *PaymentHandler) ListMine(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	opts := query.FromValues(c.QueryParams())
	payments, meta, err := h.service.ListByUser(c.Request().Context(), actor, opts)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respondList(c, "Payments retrieved successfully", payments, meta)
}
