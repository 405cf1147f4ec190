package gateways

import (
	"errors"
	"testing"

	"qrnest_app_echo/internal/models"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{name: "whole amount", amount: 49, want: 4900},
		{name: "two decimals", amount: 9.99, want: 999},
		{name: "floating point residue", amount: 19.90, want: 1990},
		{name: "rounds half up", amount: 0.005, want: 1},
		{name: "zero", amount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toMinorUnits(tt.amount); got != tt.want {
				t.Errorf("toMinorUnits(%v) = %d; want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestWithOrderID(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		orderID string
		want    string
	}{
		{
			name:    "plain url",
			rawURL:  "https://app.example.com/payment/success",
			orderID: "ord-1",
			want:    "https://app.example.com/payment/success?orderId=ord-1",
		},
		{
			name:    "url with existing query",
			rawURL:  "https://app.example.com/payment/success?src=web",
			orderID: "ord-1",
			want:    "https://app.example.com/payment/success?src=web&orderId=ord-1",
		},
		{
			name:    "empty url stays empty",
			rawURL:  "",
			orderID: "ord-1",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withOrderID(tt.rawURL, tt.orderID); got != tt.want {
				t.Errorf("withOrderID(%q, %q) = %q; want %q", tt.rawURL, tt.orderID, got, tt.want)
			}
		})
	}
}

func TestNewDispatchesByGateway(t *testing.T) {
	tests := []struct {
		gateway models.PaymentGateway
		creds   map[string]string
		// whether the processor expects amounts in the smallest currency unit
		wantMinorUnits bool
	}{
		{models.PaymentGatewayStripe, map[string]string{"secret_key": "sk", "webhook_secret": "ws"}, true},
		{models.PaymentGatewayRazorpay, map[string]string{"key_id": "k", "key_secret": "s"}, true},
		{models.PaymentGatewayPaypal, map[string]string{"client_id": "c", "client_secret": "s"}, false},
		{models.PaymentGatewayCCAvenue, map[string]string{"merchant_id": "m", "access_code": "a", "working_key": "w"}, false},
		{models.PaymentGatewayMidtrans, map[string]string{"server_key": "sk", "client_key": "ck"}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.gateway), func(t *testing.T) {
			adapter, err := New(&models.GatewayCredential{
				Gateway:     tt.gateway,
				IsActive:    true,
				Credentials: tt.creds,
				SandboxMode: true,
			})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if adapter.Name() != tt.gateway {
				t.Errorf("Name() = %q; want %q", adapter.Name(), tt.gateway)
			}
			if adapter.MinorUnits() != tt.wantMinorUnits {
				t.Errorf("MinorUnits() = %v; want %v", adapter.MinorUnits(), tt.wantMinorUnits)
			}
		})
	}
}

func TestNewUnknownGateway(t *testing.T) {
	if _, err := New(&models.GatewayCredential{Gateway: "sofort"}); err == nil {
		t.Error("New() did not return an error for an unregistered gateway")
	}
}

func TestNewFailsFastOnIncompleteCredentials(t *testing.T) {
	// construction must fail before any order is persisted or network call made
	_, err := New(&models.GatewayCredential{
		Gateway:     models.PaymentGatewayStripe,
		IsActive:    true,
		Credentials: map[string]string{"secret_key": "sk"},
	})
	var misconfigured *MisconfiguredError
	if !errors.As(err, &misconfigured) {
		t.Fatalf("New() error = %v; want MisconfiguredError", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("no variables set", func(t *testing.T) {
		t.Setenv("CCAVENUE_MERCHANT_ID", "")
		t.Setenv("CCAVENUE_ACCESS_CODE", "")
		t.Setenv("CCAVENUE_WORKING_KEY", "")

		cred := FromEnv(models.PaymentGatewayCCAvenue)
		if cred.IsActive {
			t.Error("IsActive = true with no environment variables set")
		}
	})

	t.Run("full credential set", func(t *testing.T) {
		t.Setenv("CCAVENUE_MERCHANT_ID", "M1")
		t.Setenv("CCAVENUE_ACCESS_CODE", "A1")
		t.Setenv("CCAVENUE_WORKING_KEY", "W1")
		t.Setenv("PAYMENT_SANDBOX_MODE", "false")

		cred := FromEnv(models.PaymentGatewayCCAvenue)
		if !cred.IsActive {
			t.Fatal("IsActive = false; want true")
		}
		if cred.SandboxMode {
			t.Error("SandboxMode = true; want false")
		}
		if cred.Credentials["merchant_id"] != "M1" || cred.Credentials["working_key"] != "W1" {
			t.Errorf("Credentials = %v", cred.Credentials)
		}
	})

	t.Run("partial credentials still fail adapter construction", func(t *testing.T) {
		t.Setenv("CCAVENUE_MERCHANT_ID", "M1")
		t.Setenv("CCAVENUE_ACCESS_CODE", "")
		t.Setenv("CCAVENUE_WORKING_KEY", "")

		cred := FromEnv(models.PaymentGatewayCCAvenue)
		if !cred.IsActive {
			t.Fatal("IsActive = false; want true for a partial record")
		}
		if _, err := New(cred); err == nil {
			t.Error("New() did not reject a partial credential record")
		}
	})
}
