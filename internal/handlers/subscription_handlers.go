package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
)

// SubscriptionHandler serves the caller's subscription records
type SubscriptionHandler struct {
	db *gorm.DB
}

func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{db: db}
}

type subscriptionView struct {
	models.Subscription
	Expired bool `json:"expired"`
}

// ListMySubscriptions returns the caller's subscriptions. Expiry is computed
// at read time from EndDate; the stored status may lag behind.
func (h *SubscriptionHandler) ListMySubscriptions(c echo.Context) error {
	uid := getStringFromContext(c, "userUID")

	var subs []models.Subscription
	if err := h.db.Where("user_id = ?", uid).Order("created_at desc").Find(&subs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch subscriptions")
	}

	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subscriptionView{Subscription: sub, Expired: sub.IsExpired()})
	}
	return c.JSON(http.StatusOK, views)
}
