package models

import (
	"time"

	"gorm.io/gorm"
)

// GatewayCredential holds per-gateway secrets managed by the admin workflow.
// The settlement flow only ever reads these records.
type GatewayCredential struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Gateway     PaymentGateway    `gorm:"type:varchar(50);uniqueIndex" json:"gateway"`
	IsActive    bool              `gorm:"default:false" json:"is_active"`
	Credentials map[string]string `gorm:"serializer:json" json:"-"`
	SandboxMode bool              `gorm:"default:true" json:"sandbox_mode"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName keeps the collection name used by the admin workflow
func (GatewayCredential) TableName() string {
	return "payment_gateways"
}
