package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripeCreateRemoteSession(t *testing.T) {
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":  "cs_test_1",
			"url": "https://checkout.stripe.example/cs_test_1",
		})
	}))
	defer server.Close()

	adapter, err := NewStripeAdapter(map[string]string{
		"secret_key":     "sk_test_1",
		"webhook_secret": "whsec_1",
	}, server.URL)
	if err != nil {
		t.Fatalf("NewStripeAdapter() error = %v", err)
	}

	session, err := adapter.CreateRemoteSession(context.Background(), SessionRequest{
		OrderID:    "ord-1",
		UserID:     "uid-1",
		PlanID:     "plan_pro",
		Amount:     49.99,
		Currency:   "USD",
		SuccessURL: "https://app.example.com/payment/success",
		CancelURL:  "https://app.example.com/payment/failure",
	})
	if err != nil {
		t.Fatalf("CreateRemoteSession() error = %v", err)
	}

	formValue := func(key string) string {
		vals := gotForm[key]
		if len(vals) == 0 {
			return ""
		}
		return vals[0]
	}

	// the order identity rides on the redirect URL so the result page can
	// poll order status
	if got := formValue("success_url"); got != "https://app.example.com/payment/success?orderId=ord-1" {
		t.Errorf("success_url = %q", got)
	}
	if got := formValue("cancel_url"); got != "https://app.example.com/payment/failure?orderId=ord-1" {
		t.Errorf("cancel_url = %q", got)
	}
	if got := formValue("client_reference_id"); got != "ord-1" {
		t.Errorf("client_reference_id = %q; want ord-1", got)
	}
	// Stripe takes minor units
	if got := formValue("line_items[0][price_data][unit_amount]"); got != "4999" {
		t.Errorf("unit_amount = %q; want 4999", got)
	}
	if got := formValue("line_items[0][price_data][currency]"); got != "usd" {
		t.Errorf("currency = %q; want usd", got)
	}
	if got := formValue("metadata[order_id]"); got != "ord-1" {
		t.Errorf("metadata[order_id] = %q; want ord-1", got)
	}

	if session["sessionId"] != "cs_test_1" {
		t.Errorf("sessionId = %v; want cs_test_1", session["sessionId"])
	}
	if session["url"] != "https://checkout.stripe.example/cs_test_1" {
		t.Errorf("url = %v", session["url"])
	}
}

func TestNewStripeAdapterMissingCredentials(t *testing.T) {
	tests := []struct {
		name      string
		creds     map[string]string
		wantField string
	}{
		{
			name:      "missing secret key",
			creds:     map[string]string{"webhook_secret": "whsec_1"},
			wantField: "secret_key",
		},
		{
			name:      "missing webhook secret",
			creds:     map[string]string{"secret_key": "sk_test_1"},
			wantField: "webhook_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStripeAdapter(tt.creds, "")
			var misconfigured *MisconfiguredError
			if !errors.As(err, &misconfigured) {
				t.Fatalf("NewStripeAdapter() error = %v; want MisconfiguredError", err)
			}
			if misconfigured.Field != tt.wantField {
				t.Errorf("missing field = %q; want %q", misconfigured.Field, tt.wantField)
			}
		})
	}
}
