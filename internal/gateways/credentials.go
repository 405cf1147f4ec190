package gateways

import (
	"os"
	"strings"

	"qrnest_app_echo/internal/models"
)

// envCredentialKeys maps each gateway's credential fields to the environment
// variables of the legacy configuration path.
var envCredentialKeys = map[models.PaymentGateway]map[string]string{
	models.PaymentGatewayStripe: {
		"secret_key":     "STRIPE_SECRET_KEY",
		"webhook_secret": "STRIPE_WEBHOOK_SECRET",
	},
	models.PaymentGatewayRazorpay: {
		"key_id":     "RAZORPAY_KEY_ID",
		"key_secret": "RAZORPAY_KEY_SECRET",
	},
	models.PaymentGatewayPaypal: {
		"client_id":     "PAYPAL_CLIENT_ID",
		"client_secret": "PAYPAL_CLIENT_SECRET",
	},
	models.PaymentGatewayCCAvenue: {
		"merchant_id": "CCAVENUE_MERCHANT_ID",
		"access_code": "CCAVENUE_ACCESS_CODE",
		"working_key": "CCAVENUE_WORKING_KEY",
	},
	models.PaymentGatewayMidtrans: {
		"server_key": "MIDTRANS_SERVER_KEY",
		"client_key": "MIDTRANS_CLIENT_KEY",
	},
}

// FromEnv builds a credential record from environment variables. This is the
// legacy configuration path; records read from the payment_gateways store take
// precedence. An incomplete env record fails adapter construction exactly like
// an incomplete stored record.
func FromEnv(gw models.PaymentGateway) *models.GatewayCredential {
	creds := map[string]string{}
	for field, envName := range envCredentialKeys[gw] {
		if v := os.Getenv(envName); v != "" {
			creds[field] = v
		}
	}
	return &models.GatewayCredential{
		Gateway:     gw,
		IsActive:    len(creds) > 0,
		Credentials: creds,
		SandboxMode: os.Getenv("PAYMENT_SANDBOX_MODE") != "false",
	}
}

// requireFields validates that every named credential field is non-empty
func requireFields(gw models.PaymentGateway, creds map[string]string, fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(creds[f]) == "" {
			return &MisconfiguredError{Gateway: gw, Field: f}
		}
	}
	return nil
}
