package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qrnest_app_echo/internal/models"
)

// ErrQRCodeNotFound is returned when the short code does not resolve to an
// active QR code.
var ErrQRCodeNotFound = errors.New("qr code not found")

// ScanMeta carries request attributes recorded with each scan
type ScanMeta struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// ScanService records QR scans. The counter increment and the scan-record
// append are one transaction: if the code was deleted concurrently the whole
// unit fails and no orphan record is written.
type ScanService struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewScanService(db *gorm.DB, cache *RedisCache) *ScanService {
	return &ScanService{db: db, cache: cache}
}

// RecordScan increments the scan counter and appends a scan record, returning
// the QR code so the caller can redirect to its target.
func (s *ScanService) RecordScan(ctx context.Context, shortCode string, meta ScanMeta) (*models.QRCode, error) {
	var qr models.QRCode

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("short_code = ? AND is_active = ?", shortCode, true).
			First(&qr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQRCodeNotFound
		}
		if err != nil {
			return err
		}

		qr.ScanCount++
		if err := tx.Model(&qr).Update("scan_count", qr.ScanCount).Error; err != nil {
			return err
		}

		record := models.ScanRecord{
			QRCodeID:  qr.ID,
			ScannedAt: time.Now(),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
			Referer:   meta.Referer,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	// Best-effort daily counter for dashboards; the transactional count above
	// is the source of truth
	if s.cache != nil {
		key := fmt.Sprintf("scans:%s:%s", shortCode, time.Now().Format("2006-01-02"))
		if _, err := s.cache.Increment(ctx, key); err != nil {
			log.Printf("Failed to bump scan counter cache for %s: %v", shortCode, err)
		}
	}

	return &qr, nil
}
