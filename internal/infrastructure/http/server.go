// Package http wires the echo server: middleware, validation and the
// route table for the rental request and payment surface.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/basafinder/basafinder-backend/internal/adapter/handler/http"
	"github.com/basafinder/basafinder-backend/internal/config"
	"github.com/basafinder/basafinder-backend/internal/domain/model"
	"github.com/basafinder/basafinder-backend/internal/domain/provider"
	"github.com/basafinder/basafinder-backend/internal/infrastructure/database"
	"github.com/basafinder/basafinder-backend/internal/middleware/auth"
	"github.com/basafinder/basafinder-backend/internal/usecase"
	"github.com/basafinder/basafinder-backend/pkg/logger"
)

// Validator adapts go-playground/validator to echo's interface.
type Validator struct {
	validate *validator.Validate
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	repos    *database.Repositories
	gateway  provider.Gateway
	notifier usecase.Notifier
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, gateway provider.Gateway, notifier usecase.Notifier) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &Validator{validate: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		repos:    repos,
		gateway:  gateway,
		notifier: notifier,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Usecases
	requestService := usecase.NewRequestService(s.repos.Request, s.repos.Listing, s.repos.User, s.notifier, s.logger)
	paymentService := usecase.NewPaymentService(
		s.repos.Payment, s.repos.Request, s.repos.Listing, s.repos.User,
		s.gateway, s.notifier,
		usecase.CallbackURLs{
			ReturnURL: s.config.ShurjoPay.ReturnURL,
			CancelURL: s.config.ShurjoPay.CancelURL,
		},
		s.logger)

	// Handlers
	requestHandler := handlers.NewRequestHandler(requestService, s.logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, s.logger)

	// The gateway redirects the tenant's browser to the callback with
	// no bearer token, so it stays outside authentication.
	s.echo.GET("/payments/callback", paymentHandler.HandleCallback)

	jwtMiddleware := auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	})

	tenantOnly := auth.RequireRoles(s.logger, model.RoleTenant, model.RoleAdmin)
	landlordOnly := auth.RequireRoles(s.logger, model.RoleLandlord, model.RoleAdmin)

	// Rental requests
	requests := s.echo.Group("/request", jwtMiddleware)
	requests.POST("", requestHandler.Create, tenantOnly)
	requests.GET("/tenant", requestHandler.ListForTenant, tenantOnly)
	requests.GET("/landlord", requestHandler.ListForLandlord, landlordOnly)
	requests.GET("/:id", requestHandler.GetByID)
	requests.PATCH("/:id/status", requestHandler.UpdateStatus, landlordOnly)
	requests.PATCH("/:id/payment", requestHandler.UpdatePaymentStatus, tenantOnly)

	// Payments
	payments := s.echo.Group("/payments", jwtMiddleware)
	payments.POST("/initiate/:requestId", paymentHandler.Initiate, tenantOnly)
	payments.POST("/verify", paymentHandler.Verify)
	payments.GET("/tenant", paymentHandler.ListMine, tenantOnly)
	payments.GET("/landlord", paymentHandler.ListMine, landlordOnly)
	payments.GET("/:requestId", paymentHandler.GetByRequestID)
}
