package gateways

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"qrnest_app_echo/internal/models"
)

// ErrNotConfigured is returned when a gateway has no active credential record.
var ErrNotConfigured = errors.New("payment gateway is not configured or not active")

// ErrInvalidCallback is returned when a gateway notification cannot be
// decrypted or is missing required fields.
var ErrInvalidCallback = errors.New("invalid callback payload")

// MisconfiguredError reports a credential record that exists but is missing a
// required sub-field. Adapters fail with this before any outbound call.
type MisconfiguredError struct {
	Gateway models.PaymentGateway
	Field   string
}

func (e *MisconfiguredError) Error() string {
	return fmt.Sprintf("gateway %s is misconfigured: missing credential field %q", e.Gateway, e.Field)
}

// RemoteError wraps an error reported by the processor's own API.
type RemoteError struct {
	Gateway models.PaymentGateway
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Gateway, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Gateway, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// SessionRequest is the generic payment request dispatched to an adapter.
// Amount is always in major currency units; each adapter converts according
// to its own MinorUnits convention.
type SessionRequest struct {
	OrderID     string
	UserID      string
	PlanID      string
	Amount      float64
	Currency    string
	SuccessURL  string
	CancelURL   string
	CallbackURL string // server-to-server notification target, where the processor needs one
}

// Session is the opaque payload returned verbatim to the client. Its shape
// differs per gateway: a checkout-session reference for card processors, an
// order object plus public key, or an encrypted form blob.
type Session map[string]interface{}

// Adapter translates generic payment requests into one processor's API calls.
type Adapter interface {
	Name() models.PaymentGateway
	// MinorUnits reports whether the processor expects amounts in the
	// smallest currency unit (e.g. cents) rather than major units.
	MinorUnits() bool
	CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error)
}

// CallbackResult is the normalised outcome extracted from a processor
// notification.
type CallbackResult struct {
	OrderID   string
	UserID    string
	PlanID    string
	Succeeded bool
	Params    map[string]string
}

// CallbackParser is implemented by adapters whose processors confirm payments
// through a redirect carrying an opaque payload.
type CallbackParser interface {
	ParseCallback(raw string) (*CallbackResult, error)
}

// Builder constructs an adapter from a credential record.
type Builder func(cred *models.GatewayCredential) (Adapter, error)

var builders = map[models.PaymentGateway]Builder{}

func register(gw models.PaymentGateway, b Builder) {
	builders[gw] = b
}

// New builds the adapter matching the credential record's gateway. Adding a
// processor means registering a new builder, not editing a dispatch switch.
func New(cred *models.GatewayCredential) (Adapter, error) {
	b, ok := builders[cred.Gateway]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for gateway %q", cred.Gateway)
	}
	return b(cred)
}

// toMinorUnits converts a major-unit amount to the smallest currency unit
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// withOrderID appends the order identity to a redirect target
func withOrderID(rawURL, orderID string) string {
	if rawURL == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "orderId=" + orderID
}
