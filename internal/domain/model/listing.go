package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StringList stores a list of strings as a jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

// Listing represents a rentable property published by a landlord.
// The core flows only ever mutate IsAvailable; everything else is
// owned by the listing CRUD surface.
type Listing struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Location    string          `gorm:"size:255;not null" json:"location"`
	Description string          `json:"description"`
	Rent        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rent"`
	Bedrooms    int             `gorm:"not null" json:"bedrooms"`
	Images      StringList      `gorm:"type:jsonb" json:"images"`
	Amenities   StringList      `gorm:"type:jsonb" json:"amenities"`
	LandlordID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Listing) TableName() string {
	return "listings"
}
