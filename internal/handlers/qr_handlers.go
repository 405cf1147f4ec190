package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
	"qrnest_app_echo/internal/services"
)

// QRHandler serves QR code CRUD for the authenticated owner plus the public
// scan redirect.
type QRHandler struct {
	db    *gorm.DB
	scans *services.ScanService
}

func NewQRHandler(db *gorm.DB, scans *services.ScanService) *QRHandler {
	return &QRHandler{db: db, scans: scans}
}

// ListQRCodes returns the caller's QR codes
func (h *QRHandler) ListQRCodes(c echo.Context) error {
	owner := getStringFromContext(c, "userUID")

	var codes []models.QRCode
	if err := h.db.Where("owner_uid = ?", owner).Order("created_at desc").Find(&codes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch QR codes")
	}
	return c.JSON(http.StatusOK, codes)
}

type createQRCodeRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"target_url"`
}

// CreateQRCode creates a QR code with a generated short code
func (h *QRHandler) CreateQRCode(c echo.Context) error {
	var req createQRCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.TargetURL == "" || (!strings.HasPrefix(req.TargetURL, "http://") && !strings.HasPrefix(req.TargetURL, "https://")) {
		return echo.NewHTTPError(http.StatusBadRequest, "target_url must be an absolute http(s) URL")
	}

	code := models.QRCode{
		OwnerUID:  getStringFromContext(c, "userUID"),
		Name:      req.Name,
		TargetURL: req.TargetURL,
		ShortCode: strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		IsActive:  true,
	}
	if err := h.db.Create(&code).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create QR code")
	}
	return c.JSON(http.StatusCreated, code)
}

// Resolve records a scan and redirects to the target URL. This is the public
// endpoint encoded into the printed QR image.
func (h *QRHandler) Resolve(c echo.Context) error {
	qr, err := h.scans.RecordScan(c.Request().Context(), c.Param("code"), services.ScanMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referer:   c.Request().Referer(),
	})
	if err != nil {
		if errors.Is(err, services.ErrQRCodeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Unknown code")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record scan")
	}
	return c.Redirect(http.StatusFound, qr.TargetURL)
}

// ListScans returns recent scan records for one of the caller's QR codes
func (h *QRHandler) ListScans(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid QR code ID")
	}

	var qr models.QRCode
	if err := h.db.First(&qr, uint(id)).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "QR code not found")
	}
	if qr.OwnerUID != getStringFromContext(c, "userUID") {
		return echo.NewHTTPError(http.StatusForbidden, "You can only view scans of your own QR codes")
	}

	var scans []models.ScanRecord
	if err := h.db.Where("qr_code_id = ?", qr.ID).Order("scanned_at desc").Limit(100).Find(&scans).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch scans")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"qr_code":    qr,
		"scan_count": qr.ScanCount,
		"scans":      scans,
	})
}
