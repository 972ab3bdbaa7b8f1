// Package shurjopay implements the payment gateway client against the
// shurjoPay HTTP API: token auth, checkout session creation and
// server-to-server verification.
package shurjopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/basafinder/basafinder-backend/internal/domain/provider"
	"github.com/basafinder/basafinder-backend/internal/domain/repository"
)

const (
	tokenCacheKey = "shurjopay:auth_token"
	// The gateway issues tokens valid for about an hour; cache below
	// that so a cached token never outlives the gateway's view of it.
	tokenCacheTTL = 45 * time.Minute

	defaultTimeout = 30 * time.Second
)

// Config holds the merchant credentials and endpoint for one store.
type Config struct {
	Endpoint string
	Username string
	Password string
	Prefix   string
	Timeout  time.Duration
}

// Client talks to the shurjoPay API. The auth token is cached
// best-effort; cache failures degrade to a fresh token fetch.
type Client struct {
	cfg    Config
	client *http.Client
	cache  repository.TokenCache
	logger *zap.Logger
}

var _ provider.Gateway = (*Client)(nil)

// NewClient creates a gateway client. cache may be nil to disable
// token caching.
func NewClient(cfg Config, cache repository.TokenCache, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		logger: logger,
	}
}

// GetAuthToken obtains a session token, preferring the cache.
func (c *Client) GetAuthToken(ctx context.Context) (*provider.AuthToken, error) {
	if token := c.cachedToken(ctx); token != nil {
		return token, nil
	}

	body := map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	}

	var token provider.AuthToken
	if err := c.post(ctx, "/get_token", "", body, &token); err != nil {
		c.logger.Error("ShurjoPay: Auth token request failed", zap.Error(err))
		return nil, err
	}

	if token.Token == "" {
		return nil, &provider.ProviderError{
			Code:    "AUTH_ERROR",
			Message: "Payment gateway authentication failed",
			Details: token.Message,
		}
	}

	c.storeToken(ctx, &token)
	return &token, nil
}

// CreateCheckout submits a checkout session for one payment attempt.
func (c *Client) CreateCheckout(ctx context.Context, req *provider.CheckoutRequest) (*provider.CheckoutResponse, error) {
	auth, err := c.GetAuthToken(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("ShurjoPay: Creating checkout session",
		zap.String("order_id", req.OrderID),
		zap.String("amount", req.Amount.String()),
		zap.String("currency", req.Currency))

	payload := map[string]interface{}{
		"prefix":            c.cfg.Prefix,
		"token":             auth.Token,
		"store_id":          auth.StoreID,
		"order_id":          req.OrderID,
		"return_url":        req.ReturnURL,
		"cancel_url":        req.CancelURL,
		"amount":            req.Amount,
		"currency":          req.Currency,
		"customer_name":     req.CustomerName,
		"customer_email":    req.CustomerEmail,
		"customer_phone":    req.CustomerPhone,
		"customer_address":  req.CustomerAddress,
		"customer_city":     req.CustomerCity,
		"customer_postcode": req.CustomerPostCode,
		"client_ip":         req.ClientIP,
	}

	var resp provider.CheckoutResponse
	if err := c.post(ctx, "/secret-pay", auth.Token, payload, &resp); err != nil {
		c.logger.Error("ShurjoPay: Checkout creation failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		return nil, err
	}

	if resp.SPOrderID == "" || resp.CheckoutURL == "" {
		return nil, &provider.ProviderError{
			Code:    "CHECKOUT_ERROR",
			Message: "Gateway did not return a checkout session",
		}
	}

	c.logger.Info("ShurjoPay: Checkout session created",
		zap.String("order_id", req.OrderID),
		zap.String("sp_order_id", resp.SPOrderID))

	return &resp, nil
}

// VerifyOrder confirms a checkout session's outcome. The gateway
// answers with an array of results; the first element is the one that
// matters.
func (c *Client) VerifyOrder(ctx context.Context, orderID string) (*provider.VerificationResult, error) {
	auth, err := c.GetAuthToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]string{"order_id": orderID}

	var results []provider.VerificationResult
	if err := c.post(ctx, "/verification", auth.Token, body, &results); err != nil {
		c.logger.Error("ShurjoPay: Verification request failed",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, err
	}

	if len(results) == 0 {
		return nil, &provider.ProviderError{
			Code:    "VERIFICATION_ERROR",
			Message: "Gateway returned an empty verification response",
		}
	}

	return &results[0], nil
}

// post sends a JSON request and decodes a JSON response. A bearer
// token is attached when supplied. Transport errors are wrapped into
// ProviderError; the raw error never reaches callers.
func (c *Client) post(ctx context.Context, path, bearer string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	url := c.cfg.Endpoint + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "ShurjoPay API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		_ = json.Unmarshal(respBody, &errResp)
		message, _ := errResp["message"].(string)
		if message == "" {
			message = fmt.Sprintf("gateway responded with status %d", resp.StatusCode)
		}
		return &provider.ProviderError{
			Code:    "API_ERROR",
			Message: message,
			Details: string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	return nil
}

func (c *Client) cachedToken(ctx context.Context) *provider.AuthToken {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, tokenCacheKey)
	if err != nil || raw == "" {
		return nil
	}
	var token provider.AuthToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		c.logger.Warn("ShurjoPay: Discarding unreadable cached token", zap.Error(err))
		return nil
	}
	return &token
}

func (c *Client) storeToken(ctx context.Context, token *provider.AuthToken) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, tokenCacheKey, string(raw), tokenCacheTTL); err != nil {
		c.logger.Warn("ShurjoPay: Failed to cache auth token", zap.Error(err))
	}
}
