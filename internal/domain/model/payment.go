package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle status of a single payment attempt.
//
//	pending    record created, gateway not yet contacted
//	processing gateway session created, awaiting callback/verification
//	completed  verified success
//	failed     gateway rejected or verification failed
//	refunded   reserved for future use
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment represents one attempt to collect rent for an approved
// request. Tenant, landlord and listing ids are denormalized from the
// request at creation time so the audit trail stays stable even if
// the referenced records change later. Amount and currency are
// snapshotted from the listing's rent at initiation time.
type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"request_id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LandlordID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	ListingID      uuid.UUID       `gorm:"type:uuid;not null" json:"listing_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency       string          `gorm:"size:3;not null;default:'BDT'" json:"currency"`
	Status         PaymentStatus   `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentOrderID *string         `gorm:"size:100;uniqueIndex" json:"payment_order_id,omitempty"`
	TransactionID  *string         `gorm:"size:100" json:"transaction_id,omitempty"`
	PaymentInfo    *PaymentInfo    `gorm:"type:jsonb" json:"payment_info,omitempty"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`

	// Relations
	Request *Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
