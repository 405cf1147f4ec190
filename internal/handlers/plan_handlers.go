package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
)

// PlanHandler serves the purchasable plan catalog
type PlanHandler struct {
	db *gorm.DB
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

// ListPlans returns active plans
func (h *PlanHandler) ListPlans(c echo.Context) error {
	var plans []models.Plan
	if err := h.db.Where("is_active = ?", true).Order("price asc").Find(&plans).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// GetPlan returns one plan by code
func (h *PlanHandler) GetPlan(c echo.Context) error {
	var plan models.Plan
	if err := h.db.Where("code = ?", c.Param("code")).First(&plan).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
	}
	return c.JSON(http.StatusOK, plan)
}
