package gateways

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaypalCreateRemoteSession(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/checkout/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PP-ORDER-1",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://paypal.example/self", "rel": "self", "method": "GET"},
				{"href": "https://paypal.example/approve", "rel": "approve", "method": "GET"},
			},
		})
	}))
	defer server.Close()

	adapter, err := NewPaypalAdapter(map[string]string{
		"client_id":     "client-1",
		"client_secret": "secret-1",
	}, true)
	if err != nil {
		t.Fatalf("NewPaypalAdapter() error = %v", err)
	}
	adapter.baseURL = server.URL

	session, err := adapter.CreateRemoteSession(context.Background(), SessionRequest{
		OrderID:    "ord-1",
		UserID:     "uid-1",
		PlanID:     "plan_pro",
		Amount:     9.99,
		Currency:   "USD",
		SuccessURL: "https://app.example.com/payment/success",
		CancelURL:  "https://app.example.com/payment/failure",
	})
	if err != nil {
		t.Fatalf("CreateRemoteSession() error = %v", err)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-1:secret-1"))
	if gotAuth != wantAuth {
		t.Errorf("Authorization = %q; want %q", gotAuth, wantAuth)
	}

	units, _ := gotPayload["purchase_units"].([]interface{})
	if len(units) != 1 {
		t.Fatalf("purchase_units length = %d; want 1", len(units))
	}
	unit := units[0].(map[string]interface{})
	if unit["reference_id"] != "ord-1" {
		t.Errorf("reference_id = %v; want ord-1", unit["reference_id"])
	}
	amount := unit["amount"].(map[string]interface{})
	// PayPal takes major units with two decimals
	if amount["value"] != "9.99" {
		t.Errorf("amount value = %v; want 9.99", amount["value"])
	}
	if amount["currency_code"] != "USD" {
		t.Errorf("currency_code = %v; want USD", amount["currency_code"])
	}

	appCtx := gotPayload["application_context"].(map[string]interface{})
	if appCtx["return_url"] != "https://app.example.com/payment/success?orderId=ord-1" {
		t.Errorf("return_url = %v", appCtx["return_url"])
	}

	if session["paypalOrderId"] != "PP-ORDER-1" {
		t.Errorf("paypalOrderId = %v; want PP-ORDER-1", session["paypalOrderId"])
	}
	if session["approvalUrl"] != "https://paypal.example/approve" {
		t.Errorf("approvalUrl = %v", session["approvalUrl"])
	}
}

func TestPaypalCreateRemoteSessionRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"name":"UNPROCESSABLE_ENTITY"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	adapter, err := NewPaypalAdapter(map[string]string{
		"client_id":     "client-1",
		"client_secret": "secret-1",
	}, true)
	if err != nil {
		t.Fatalf("NewPaypalAdapter() error = %v", err)
	}
	adapter.baseURL = server.URL

	_, err = adapter.CreateRemoteSession(context.Background(), SessionRequest{
		OrderID: "ord-1", UserID: "uid-1", PlanID: "plan_pro", Amount: 9.99, Currency: "USD",
	})
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("CreateRemoteSession() error = %v; want RemoteError", err)
	}
	if remote.Gateway != adapter.Name() {
		t.Errorf("RemoteError.Gateway = %q; want %q", remote.Gateway, adapter.Name())
	}
}

func TestPaypalCreateRemoteSessionNoApprovalLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PP-ORDER-2",
			"status": "CREATED",
			"links":  []map[string]string{{"href": "https://paypal.example/self", "rel": "self"}},
		})
	}))
	defer server.Close()

	adapter, err := NewPaypalAdapter(map[string]string{
		"client_id":     "client-1",
		"client_secret": "secret-1",
	}, true)
	if err != nil {
		t.Fatalf("NewPaypalAdapter() error = %v", err)
	}
	adapter.baseURL = server.URL

	_, err = adapter.CreateRemoteSession(context.Background(), SessionRequest{
		OrderID: "ord-1", UserID: "uid-1", PlanID: "plan_pro", Amount: 9.99, Currency: "USD",
	})
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("CreateRemoteSession() error = %v; want RemoteError", err)
	}
}

func TestNewPaypalAdapterMissingCredentials(t *testing.T) {
	_, err := NewPaypalAdapter(map[string]string{"client_id": "client-1"}, true)
	var misconfigured *MisconfiguredError
	if !errors.As(err, &misconfigured) {
		t.Fatalf("NewPaypalAdapter() error = %v; want MisconfiguredError", err)
	}
	if misconfigured.Field != "client_secret" {
		t.Errorf("missing field = %q; want client_secret", misconfigured.Field)
	}
}
