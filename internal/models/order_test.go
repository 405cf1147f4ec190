package models

import (
	"strings"
	"testing"
	"time"
)

func TestParsePaymentGateway(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PaymentGateway
		wantErr bool
	}{
		{name: "stripe", input: "stripe", want: PaymentGatewayStripe},
		{name: "paypal", input: "paypal", want: PaymentGatewayPaypal},
		{name: "razorpay", input: "razorpay", want: PaymentGatewayRazorpay},
		{name: "ccavenue", input: "ccavenue", want: PaymentGatewayCCAvenue},
		{name: "midtrans", input: "midtrans", want: PaymentGatewayMidtrans},
		{name: "unknown", input: "sofort", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong case", input: "Stripe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePaymentGateway(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePaymentGateway(%q) did not return an error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePaymentGateway(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePaymentGateway(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, false},
		{OrderStatusSuccess, true},
		{OrderStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			o := Order{Status: tt.status}
			if got := o.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNewOrderID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		if !strings.HasPrefix(id, "ord-") {
			t.Fatalf("NewOrderID() = %q; want ord- prefix", id)
		}
		if seen[id] {
			t.Fatalf("NewOrderID() repeated id %q", id)
		}
		seen[id] = true
	}
}

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Now()

	active := Subscription{EndDate: now.Add(24 * time.Hour)}
	if active.IsExpired() {
		t.Error("subscription ending tomorrow reported expired")
	}

	lapsed := Subscription{EndDate: now.Add(-time.Minute)}
	if !lapsed.IsExpired() {
		t.Error("subscription past its end date reported active")
	}

	// the stored status does not override the date comparison
	lapsed.Status = SubscriptionStatusActive
	if !lapsed.IsExpired() {
		t.Error("stale active status masked expiry")
	}
}

func TestPlanNextRenewal(t *testing.T) {
	after := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no billing interval falls back to 30 days", func(t *testing.T) {
		p := Plan{}
		if got := p.NextRenewal(after); !got.Equal(after.AddDate(0, 0, 30)) {
			t.Errorf("NextRenewal() = %v", got)
		}
	})

	t.Run("monthly rule", func(t *testing.T) {
		rule := "FREQ=MONTHLY;BYMONTHDAY=1"
		p := Plan{
			CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			BillingInterval: &rule,
		}
		got := p.NextRenewal(after)
		want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("NextRenewal() = %v; want %v", got, want)
		}
	})

	t.Run("invalid rule falls back to 30 days", func(t *testing.T) {
		rule := "not-a-rule"
		p := Plan{BillingInterval: &rule}
		if got := p.NextRenewal(after); !got.Equal(after.AddDate(0, 0, 30)) {
			t.Errorf("NextRenewal() = %v", got)
		}
	})
}
