package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// PaymentGateway identifies a supported payment processor
type PaymentGateway string

const (
	PaymentGatewayStripe   PaymentGateway = "stripe"
	PaymentGatewayPaypal   PaymentGateway = "paypal"
	PaymentGatewayRazorpay PaymentGateway = "razorpay"
	PaymentGatewayCCAvenue PaymentGateway = "ccavenue"
	PaymentGatewayMidtrans PaymentGateway = "midtrans"
)

// ParsePaymentGateway validates a gateway name supplied by a client
func ParsePaymentGateway(name string) (PaymentGateway, error) {
	switch PaymentGateway(name) {
	case PaymentGatewayStripe, PaymentGatewayPaypal, PaymentGatewayRazorpay,
		PaymentGatewayCCAvenue, PaymentGatewayMidtrans:
		return PaymentGateway(name), nil
	}
	return "", fmt.Errorf("unknown payment gateway: %q", name)
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSuccess OrderStatus = "success"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order tracks one attempted payment from creation to its terminal outcome.
// Orders are never deleted; they are the audit trail of the settlement flow.
// Status moves from pending to exactly one of success/failed and never again.
type Order struct {
	ID             string                 `gorm:"type:varchar(100);primaryKey" json:"id"`
	UserID         string                 `gorm:"type:varchar(100);index" json:"user_id"`
	PlanID         string                 `gorm:"type:varchar(100);index" json:"plan_id"`
	Amount         float64                `gorm:"type:decimal(15,2)" json:"amount"`
	Currency       string                 `gorm:"type:varchar(3)" json:"currency"`
	Gateway        PaymentGateway         `gorm:"type:varchar(50);not null" json:"gateway"`
	Status         OrderStatus            `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentDetails map[string]interface{} `gorm:"serializer:json" json:"payment_details,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// IsTerminal reports whether the order has reached its final state
func (o Order) IsTerminal() bool {
	return o.Status == OrderStatusSuccess || o.Status == OrderStatusFailed
}

// NewOrderID generates an order identity: unix timestamp plus a random suffix
func NewOrderID() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand never fails on supported platforms; fall back to nanos
		return fmt.Sprintf("ord-%d-%d", time.Now().Unix(), time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("ord-%d-%s", time.Now().Unix(), hex.EncodeToString(suffix))
}
