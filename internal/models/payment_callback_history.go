package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentCallbackHistory is an append-only audit of every inbound gateway
// notification, recorded whether or not the payload could be processed.
type PaymentCallbackHistory struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	PaymentGateway PaymentGateway         `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	OrderID        string                 `gorm:"type:varchar(100);index" json:"order_id"`
	Metadata       map[string]interface{} `gorm:"serializer:json" json:"metadata"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
}
