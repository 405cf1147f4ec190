package models

import (
	"time"

	"gorm.io/gorm"
)

// QRCode is a tenant-owned code redirecting scanners to a target URL
type QRCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerUID  string `gorm:"type:varchar(100);index" json:"owner_uid"`
	Name      string `gorm:"type:varchar(255)" json:"name"`
	TargetURL string `gorm:"type:text" json:"target_url"`
	ShortCode string `gorm:"type:varchar(20);uniqueIndex" json:"short_code"`
	ScanCount int    `gorm:"default:0" json:"scan_count"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Scans []ScanRecord `gorm:"foreignKey:QRCodeID" json:"scans,omitempty"`
}

// ScanRecord captures a single scan event for analytics
type ScanRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	QRCodeID  uint      `gorm:"index" json:"qr_code_id"`
	ScannedAt time.Time `json:"scanned_at"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:varchar(512)" json:"user_agent"`
	Referer   string    `gorm:"type:varchar(512)" json:"referer"`
}
