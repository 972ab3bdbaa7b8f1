// Package http holds the echo handlers for the rental request and
// payment surface.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/apperror"
	"github.com/basafinder/basafinder-backend/internal/domain/query"
	"github.com/basafinder/basafinder-backend/internal/middleware/auth"
	"github.com/basafinder/basafinder-backend/internal/usecase"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *query.Meta `json:"meta,omitempty"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondList(c echo.Context, message string, data interface{}, meta query.Meta) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// respondError maps the error taxonomy onto HTTP statuses. Internal
// details never leave the process; only the classified message does.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	status := apperror.StatusOf(err)
	message := "Something went wrong"

	var appErr *apperror.AppError
	if apperror.As(err, &appErr) && appErr.Code() != apperror.CodeInternal {
		message = appErr.Message()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	return c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// actorFromContext resolves the acting user placed by the JWT
// middleware.
func actorFromContext(c echo.Context) (usecase.Actor, error) {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return usecase.Actor{}, apperror.Forbidden("Authentication required")
	}
	return usecase.Actor{ID: user.ID, Role: user.Role}, nil
}
