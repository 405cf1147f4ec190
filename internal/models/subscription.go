package models

import (
	"time"
)

// SubscriptionStatus represents the stored state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription grants plan entitlements to a user for a fixed validity window.
// Exactly one subscription is created per successful order. Renewal creates a
// new record; existing records are never mutated by the settlement flow.
type Subscription struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	UserID    string             `gorm:"type:varchar(100);index" json:"user_id"`
	PlanID    string             `gorm:"type:varchar(100);index" json:"plan_id"`
	OrderID   string             `gorm:"type:varchar(100);index" json:"order_id"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// IsExpired computes expiry at read time by comparing EndDate to now.
// The stored status is only swept to "expired" by the background worker
// for reporting; entitlement checks must use this instead.
func (s Subscription) IsExpired() bool {
	return time.Now().After(s.EndDate)
}
