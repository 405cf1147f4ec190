package gateways

import (
	"context"
	"fmt"
	"math"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"qrnest_app_echo/internal/models"
)

func init() {
	register(models.PaymentGatewayMidtrans, func(cred *models.GatewayCredential) (Adapter, error) {
		return NewMidtransAdapter(cred.Credentials, cred.SandboxMode)
	})
}

// MidtransAdapter creates Snap transactions for the hosted Midtrans checkout
type MidtransAdapter struct {
	snapClient snap.Client
	clientKey  string
}

func NewMidtransAdapter(creds map[string]string, sandbox bool) (*MidtransAdapter, error) {
	if err := requireFields(models.PaymentGatewayMidtrans, creds, "server_key", "client_key"); err != nil {
		return nil, err
	}

	env := midtrans.Production
	if sandbox {
		env = midtrans.Sandbox
	}

	var s snap.Client
	s.New(creds["server_key"], env)

	return &MidtransAdapter{snapClient: s, clientKey: creds["client_key"]}, nil
}

func (a *MidtransAdapter) Name() models.PaymentGateway { return models.PaymentGatewayMidtrans }

// Snap gross amounts are whole rupiah, so this adapter stays in major units
func (a *MidtransAdapter) MinorUnits() bool { return false }

func (a *MidtransAdapter) CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error) {
	gross := int64(math.Round(req.Amount))

	param := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.PlanID,
				Name:  fmt.Sprintf("Plan %s", req.PlanID),
				Price: gross,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: withOrderID(req.SuccessURL, req.OrderID),
		},
	}

	resp, err := a.snapClient.CreateTransaction(param)
	if err != nil {
		return nil, &RemoteError{Gateway: a.Name(), Message: "failed to create snap transaction", Err: err}
	}

	return Session{
		"token":       resp.Token,
		"redirectUrl": resp.RedirectURL,
		"clientKey":   a.clientKey,
	}, nil
}
