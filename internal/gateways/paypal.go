package gateways

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"qrnest_app_echo/internal/models"
)

const (
	paypalSandboxBase = "https://api-m.sandbox.paypal.com"
	paypalLiveBase    = "https://api-m.paypal.com"
)

func init() {
	register(models.PaymentGatewayPaypal, func(cred *models.GatewayCredential) (Adapter, error) {
		return NewPaypalAdapter(cred.Credentials, cred.SandboxMode)
	})
}

// PaypalAdapter creates orders against PayPal's REST API using Basic auth
type PaypalAdapter struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewPaypalAdapter(creds map[string]string, sandbox bool) (*PaypalAdapter, error) {
	if err := requireFields(models.PaymentGatewayPaypal, creds, "client_id", "client_secret"); err != nil {
		return nil, err
	}
	base := paypalLiveBase
	if sandbox {
		base = paypalSandboxBase
	}
	return &PaypalAdapter{
		baseURL:      base,
		clientID:     creds["client_id"],
		clientSecret: creds["client_secret"],
		client:       &http.Client{},
	}, nil
}

func (a *PaypalAdapter) Name() models.PaymentGateway { return models.PaymentGatewayPaypal }

func (a *PaypalAdapter) MinorUnits() bool { return false }

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href   string `json:"href"`
		Rel    string `json:"rel"`
		Method string `json:"method"`
	} `json:"links"`
}

func (a *PaypalAdapter) CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": req.OrderID,
				"custom_id":    fmt.Sprintf("%s|%s", req.UserID, req.PlanID),
				"amount": map[string]string{
					"currency_code": req.Currency,
					"value":         fmt.Sprintf("%.2f", req.Amount),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": withOrderID(req.SuccessURL, req.OrderID),
			"cancel_url": withOrderID(req.CancelURL, req.OrderID),
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v2/checkout/orders", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(a.clientID, a.clientSecret))

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &RemoteError{Gateway: a.Name(), Message: "order request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &RemoteError{
			Gateway: a.Name(),
			Message: fmt.Sprintf("order request returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var order paypalOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, &RemoteError{Gateway: a.Name(), Message: "failed to decode order response", Err: err}
	}

	approvalURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
			break
		}
	}
	if approvalURL == "" {
		return nil, &RemoteError{Gateway: a.Name(), Message: "order response has no approval link"}
	}

	return Session{
		"paypalOrderId": order.ID,
		"status":        order.Status,
		"approvalUrl":   approvalURL,
	}, nil
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
