package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"qrnest_app_echo/internal/models"
	"qrnest_app_echo/internal/services"
)

// PaymentHandler exposes the settlement flow over HTTP
type PaymentHandler struct {
	settlement *services.SettlementService
}

func NewPaymentHandler(settlement *services.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlement: settlement}
}

type createSessionRequest struct {
	Gateway  string  `json:"gateway"`
	PlanID   string  `json:"planId"`
	UserID   string  `json:"userId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CreateSession creates a pending order and returns the gateway's opaque
// session payload verbatim.
func (h *PaymentHandler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	// The authenticated identity wins over whatever the body claims
	if uid := getStringFromContext(c, "userUID"); uid != "" {
		req.UserID = uid
	}

	result, err := h.settlement.CreateSession(c.Request().Context(), req.Gateway, req.PlanID, req.UserID, req.Amount, req.Currency)
	if err != nil {
		if services.IsCallerError(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err // remote and storage errors are mapped centrally
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order_id": result.Order.ID,
		"session":  result.Session,
	})
}

// CCAvenueCallback is the redirect target the processor posts the encrypted
// payload to. It always answers with a redirect, never JSON; when anything
// goes wrong, including the decrypt itself, the user lands on the failure
// page.
func (h *PaymentHandler) CCAvenueCallback(c echo.Context) error {
	encResp := c.FormValue("encResp")

	outcome, err := h.settlement.HandleEncryptedCallback(c.Request().Context(), string(models.PaymentGatewayCCAvenue), encResp)
	if err != nil {
		c.Logger().Errorf("ccavenue callback rejected: %v", err)
		return c.Redirect(http.StatusFound, "/payment/failure")
	}

	if outcome.Succeeded {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/payment/success?orderId=%s", outcome.OrderID))
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/payment/failure?orderId=%s", outcome.OrderID))
}

// GetOrder returns the status of one order for the audit/read path
func (h *PaymentHandler) GetOrder(c echo.Context) error {
	order, err := h.settlement.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}
	return c.JSON(http.StatusOK, order)
}

// SuccessPage is the fixed landing page after a successful settlement
func (h *PaymentHandler) SuccessPage(c echo.Context) error {
	return c.HTML(http.StatusOK, resultPage("Payment successful", "Your subscription is now active.", c.QueryParam("orderId")))
}

// FailurePage is the fixed landing page for every failed or rejected callback
func (h *PaymentHandler) FailurePage(c echo.Context) error {
	return c.HTML(http.StatusOK, resultPage("Payment failed", "Your payment was not completed. No subscription was created.", c.QueryParam("orderId")))
}

func resultPage(title, body, orderID string) string {
	ref := ""
	if orderID != "" {
		ref = fmt.Sprintf("<p>Order reference: <code>%s</code></p>", orderID)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
%s
</body>
</html>`, title, title, body, ref)
}
