package models

import (
	"time"

	"github.com/teambition/rrule-go"
	"gorm.io/gorm"
)

// Plan represents a purchasable billing plan
type Plan struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code     string  `gorm:"type:varchar(100);uniqueIndex" json:"code"` // e.g., "plan_pro"
	Name     string  `gorm:"type:varchar(255)" json:"name"`
	Price    float64 `gorm:"type:decimal(15,2)" json:"price"`
	Currency string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	// Entitlements granted while a subscription to this plan is active
	QRCodeLimit   int `gorm:"default:10" json:"qr_code_limit"`
	ShortURLLimit int `gorm:"default:10" json:"short_url_limit"`
	TourLimit     int `gorm:"default:1" json:"tour_limit"`

	IsActive        bool    `gorm:"default:true" json:"is_active"`
	BillingInterval *string `gorm:"type:text" json:"billing_interval"` // RFC 5545 RRULE string
}

// NextRenewal calculates the next renewal reminder date after the given time
func (p Plan) NextRenewal(after time.Time) time.Time {
	if p.BillingInterval != nil && *p.BillingInterval != "" {
		rule, err := rrule.StrToRRule(*p.BillingInterval)
		if err == nil {
			rule.DTStart(p.CreatedAt)
			next := rule.After(after, true)
			if !next.IsZero() {
				return next
			}
		}
	}
	// Fallback to a plain 30-day cycle if no rule is set or parsing fails
	return after.AddDate(0, 0, 30)
}
