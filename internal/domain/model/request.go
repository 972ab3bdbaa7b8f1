package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle status of a rental request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// RequestPaymentStatus tracks payment progress on a rental request.
// It is an independent axis from RequestStatus and only meaningful
// once the request has been approved.
type RequestPaymentStatus string

const (
	RequestPaymentPending RequestPaymentStatus = "pending"
	RequestPaymentPaid    RequestPaymentStatus = "paid"
	RequestPaymentFailed  RequestPaymentStatus = "failed"
)

// PaymentInfo is the snapshot of a verified gateway payment, stored
// as jsonb on both the request and the payment record.
type PaymentInfo struct {
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaidAt        time.Time       `json:"paid_at"`
}

func (p PaymentInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	return string(b), err
}

func (p *PaymentInfo) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("unsupported type for PaymentInfo")
}

// Request represents one tenant's application to rent one listing.
// ListingID and TenantID are immutable after creation.
type Request struct {
	ID                  uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID           uuid.UUID            `gorm:"type:uuid;not null;index" json:"listing_id"`
	TenantID            uuid.UUID            `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Message             string               `gorm:"not null" json:"message"`
	MoveInDate          time.Time            `gorm:"not null" json:"move_in_date"`
	RentalDuration      int                  `gorm:"not null" json:"rental_duration"`
	SpecialRequirements string               `json:"special_requirements,omitempty"`
	AgreedToTerms       bool                 `gorm:"not null;default:false" json:"agreed_to_terms"`
	Status              RequestStatus        `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus       RequestPaymentStatus `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentOrderID      *string              `gorm:"size:100;index" json:"payment_order_id,omitempty"`
	PaymentInfo         *PaymentInfo         `gorm:"type:jsonb" json:"payment_info,omitempty"`
	LandlordPhoneNumber *string              `gorm:"size:30" json:"landlord_phone_number,omitempty"`
	CreatedAt           time.Time            `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"default:now()" json:"updated_at"`

	// Relations
	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Tenant  *User    `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for GORM
func (Request) TableName() string {
	return "requests"
}
