// Package auth provides JWT authentication middleware for the HTTP
// surface.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

// AuthUser represents an authenticated user from JWT
type AuthUser struct {
	ID    uuid.UUID      `json:"id"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

// contextKey is used for storing user in context
type contextKey string

const userContextKey contextKey = "authenticated_user"

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret    string
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware creates a middleware that validates bearer tokens and
// resolves the acting user from the id/email/role claims.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Authorization header required",
					"code":    "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid authorization header format. Expected: Bearer <token>",
					"code":    "INVALID_AUTH_FORMAT",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid or expired token",
					"code":    "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				config.Logger.Warn("Invalid JWT claims",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid token claims",
					"code":    "INVALID_CLAIMS",
				})
			}

			rawID, _ := claims["id"].(string)
			userID, err := uuid.Parse(rawID)
			if err != nil {
				config.Logger.Warn("Invalid user id claim",
					zap.String("id", rawID),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid token claims",
					"code":    "INVALID_CLAIMS",
				})
			}

			rawRole, _ := claims["role"].(string)
			role := model.UserRole(rawRole)
			if !role.Valid() {
				config.Logger.Warn("Invalid role claim",
					zap.String("role", rawRole),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid token claims",
					"code":    "INVALID_CLAIMS",
				})
			}

			email, _ := claims["email"].(string)

			authUser := &AuthUser{
				ID:    userID,
				Email: email,
				Role:  role,
			}

			ctx := context.WithValue(c.Request().Context(), userContextKey, authUser)
			c.SetRequest(c.Request().WithContext(ctx))

			config.Logger.Debug("User authenticated",
				zap.String("user_id", userID.String()),
				zap.String("role", string(role)),
				zap.String("path", path))

			return next(c)
		}
	}
}

// RequireRoles restricts a route to the given roles. It must run after
// JWTMiddleware.
func RequireRoles(logger *zap.Logger, roles ...model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := GetUserFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Authentication required",
					"code":    "UNAUTHENTICATED",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			logger.Warn("Role not permitted for route",
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
				zap.String("path", c.Request().URL.Path))
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "You are not authorized to perform this action",
				"code":    "FORBIDDEN",
			})
		}
	}
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(c echo.Context) (*AuthUser, error) {
	user, ok := c.Request().Context().Value(userContextKey).(*AuthUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("no authenticated user found in context")
	}
	return user, nil
}
