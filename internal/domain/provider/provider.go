package provider

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Gateway is the client-side view of the external payment gateway:
// token auth, checkout session creation and server-to-server
// verification of a session's final outcome.
type Gateway interface {
	// GetAuthToken obtains a session token for the merchant account.
	GetAuthToken(ctx context.Context) (*AuthToken, error)

	// CreateCheckout submits a checkout session and returns the URL the
	// tenant is redirected to plus the gateway-issued order id.
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error)

	// VerifyOrder confirms a checkout session's final outcome with the
	// gateway, independent of any client-supplied claim.
	VerifyOrder(ctx context.Context, orderID string) (*VerificationResult, error)
}

// AuthToken is the gateway's session credential.
type AuthToken struct {
	Token     string `json:"token"`
	StoreID   string `json:"store_id"`
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expires_in"`
}

// CheckoutRequest carries everything the gateway needs to open a
// checkout session for one payment attempt.
type CheckoutRequest struct {
	OrderID          string          `json:"order_id"` // internal payment id
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email"`
	CustomerPhone    string          `json:"customer_phone"`
	CustomerAddress  string          `json:"customer_address"`
	CustomerCity     string          `json:"customer_city"`
	CustomerPostCode string          `json:"customer_postcode"`
	ReturnURL        string          `json:"return_url"`
	CancelURL        string          `json:"cancel_url"`
	ClientIP         string          `json:"client_ip"`
}

// CheckoutResponse is the gateway's acceptance of a checkout session.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SPOrderID   string `json:"sp_order_id"`
}

// Code is a gateway response code. The gateway's schema is
// inconsistent across integrations and delivers codes either as JSON
// numbers or as numeral strings; Code accepts both.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	*c = Code(strings.Trim(string(data), `"`))
	return nil
}

// successCode is the gateway's sentinel for a completed payment.
const successCode = "1000"

// VerificationResult is one element of the gateway's verification
// response array.
type VerificationResult struct {
	SPCode       Code    `json:"sp_code"`
	SPMessage    string  `json:"sp_message"`
	OrderID      string  `json:"order_id"`
	BankTrxID    string  `json:"bank_trx_id"`
	Amount       float64 `json:"amount"`
	CurrencyType string  `json:"currency_type"`
	DateTime     string  `json:"date_time"`
	Status       string  `json:"status"`
}

// IsSuccess reports whether the verification confirms a completed
// payment. The gateway encodes success either as code 1000 (number or
// numeral string) or as a message containing "success"; both are
// accepted. Any other code, including HTTP-looking ones such as 200,
// is not success on its own.
func (v *VerificationResult) IsSuccess() bool {
	if string(v.SPCode) == successCode {
		return true
	}
	return strings.Contains(strings.ToLower(v.SPMessage), "success")
}

// ProviderError is a classified failure from the gateway client.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
