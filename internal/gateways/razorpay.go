package gateways

import (
	"context"

	razorpay "github.com/razorpay/razorpay-go"

	"qrnest_app_echo/internal/models"
)

func init() {
	register(models.PaymentGatewayRazorpay, func(cred *models.GatewayCredential) (Adapter, error) {
		return NewRazorpayAdapter(cred.Credentials)
	})
}

// RazorpayAdapter creates Razorpay orders for the client-side checkout SDK
type RazorpayAdapter struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpayAdapter(creds map[string]string) (*RazorpayAdapter, error) {
	if err := requireFields(models.PaymentGatewayRazorpay, creds, "key_id", "key_secret"); err != nil {
		return nil, err
	}
	return &RazorpayAdapter{
		client: razorpay.NewClient(creds["key_id"], creds["key_secret"]),
		keyID:  creds["key_id"],
	}, nil
}

func (a *RazorpayAdapter) Name() models.PaymentGateway { return models.PaymentGatewayRazorpay }

func (a *RazorpayAdapter) MinorUnits() bool { return true }

func (a *RazorpayAdapter) CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error) {
	data := map[string]interface{}{
		"amount":   toMinorUnits(req.Amount),
		"currency": req.Currency,
		"receipt":  req.OrderID,
		"notes": map[string]interface{}{
			"order_id": req.OrderID,
			"user_id":  req.UserID,
			"plan_id":  req.PlanID,
		},
	}

	body, err := a.client.Order.Create(data, nil)
	if err != nil {
		return nil, &RemoteError{Gateway: a.Name(), Message: "failed to create order", Err: err}
	}

	// The client-side SDK needs the processor order id plus the public key id
	return Session{
		"orderId":  body["id"],
		"amount":   body["amount"],
		"currency": body["currency"],
		"keyId":    a.keyID,
	}, nil
}
