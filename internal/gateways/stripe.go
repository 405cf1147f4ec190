package gateways

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"qrnest_app_echo/internal/models"
)

func init() {
	register(models.PaymentGatewayStripe, func(cred *models.GatewayCredential) (Adapter, error) {
		return NewStripeAdapter(cred.Credentials, "")
	})
}

// StripeAdapter creates hosted Checkout sessions for the card-checkout flow
type StripeAdapter struct {
	api *client.API
}

// NewStripeAdapter validates credentials and builds a Stripe client.
// backendURL overrides the API host and is only set by tests.
func NewStripeAdapter(creds map[string]string, backendURL string) (*StripeAdapter, error) {
	if err := requireFields(models.PaymentGatewayStripe, creds, "secret_key", "webhook_secret"); err != nil {
		return nil, err
	}

	api := &client.API{}
	if backendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(backendURL),
		})
		api.Init(creds["secret_key"], &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	} else {
		api.Init(creds["secret_key"], nil)
	}
	return &StripeAdapter{api: api}, nil
}

func (a *StripeAdapter) Name() models.PaymentGateway { return models.PaymentGatewayStripe }

func (a *StripeAdapter) MinorUnits() bool { return true }

func (a *StripeAdapter) CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.OrderID),
		SuccessURL:        stripe.String(withOrderID(req.SuccessURL, req.OrderID)),
		CancelURL:         stripe.String(withOrderID(req.CancelURL, req.OrderID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Plan %s", req.PlanID)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("user_id", req.UserID)
	params.AddMetadata("plan_id", req.PlanID)

	s, err := a.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, &RemoteError{Gateway: a.Name(), Message: "failed to create checkout session", Err: err}
	}

	return Session{
		"sessionId": s.ID,
		"url":       s.URL,
	}, nil
}
