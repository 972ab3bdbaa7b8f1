package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/model"
)

const testSecret = "test-secret"

func createValidJWT(userID, email, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, _ := token.SignedString([]byte(testSecret))
	return tokenString
}

func testConfig() JWTConfig {
	return JWTConfig{
		Secret: testSecret,
		Logger: zap.NewNop(),
	}
}

func invoke(t *testing.T, config JWTConfig, req *http.Request, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware(config)(next)(c)
	assert.NoError(t, err)
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	userID := uuid.New()

	handler := func(c echo.Context) error {
		user, err := GetUserFromContext(c)
		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "tenant@example.com", user.Email)
		assert.Equal(t, model.RoleTenant, user.Role)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer "+createValidJWT(userID.String(), "tenant@example.com", "tenant"))

	rec := invoke(t, testConfig(), req, handler)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_MissingAuthorizationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
}

func TestJWTMiddleware_InvalidHeaderFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Token abc123")

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    uuid.New().String(),
		"email": "tenant@example.com",
		"role":  "tenant",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestJWTMiddleware_WrongSigningKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   uuid.New().String(),
		"role": "tenant",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte("other-secret"))

	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddleware_InvalidUserIDClaim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer "+createValidJWT("not-a-uuid", "tenant@example.com", "tenant"))

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CLAIMS")
}

func TestJWTMiddleware_UnknownRoleClaim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/request/tenant", nil)
	req.Header.Set("Authorization", "Bearer "+createValidJWT(uuid.New().String(), "x@example.com", "superuser"))

	rec := invoke(t, testConfig(), req, okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CLAIMS")
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	config := testConfig()
	config.SkipPaths = []string{"/payments/callback", "/health"}

	req := httptest.NewRequest(http.MethodGet, "/payments/callback?order_id=SP1", nil)

	rec := invoke(t, config, req, okHandler)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	landlordID := uuid.New()

	tests := []struct {
		name       string
		role       string
		allowed    []model.UserRole
		wantStatus int
	}{
		{
			name:       "matching role passes",
			role:       "landlord",
			allowed:    []model.UserRole{model.RoleLandlord},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin listed explicitly passes",
			role:       "admin",
			allowed:    []model.UserRole{model.RoleLandlord, model.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role outside the set is forbidden",
			role:       "tenant",
			allowed:    []model.UserRole{model.RoleLandlord},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTMiddleware(testConfig())(RequireRoles(zap.NewNop(), tt.allowed...)(okHandler))

			req := httptest.NewRequest(http.MethodPatch, "/request/abc/status", nil)
			req.Header.Set("Authorization", "Bearer "+createValidJWT(landlordID.String(), "u@example.com", tt.role))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler(c)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRoles_WithoutAuthentication(t *testing.T) {
	handler := RequireRoles(zap.NewNop(), model.RoleLandlord)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/request/landlord", nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
