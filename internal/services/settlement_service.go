package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"qrnest_app_echo/internal/gateways"
	"qrnest_app_echo/internal/models"
)

// SubscriptionValidityDays is the fixed entitlement window granted per
// successful settlement.
const SubscriptionValidityDays = 30

// ErrInvalidRequest marks request validation failures that should surface as
// 4xx responses.
var ErrInvalidRequest = errors.New("invalid payment request")

// OrderStore is the settlement flow's write path for orders
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	// MarkTerminal transitions the order out of pending. It must be a
	// conditional write guarded by the current status; it reports false when
	// the order was already terminal (a replayed callback).
	MarkTerminal(ctx context.Context, id string, status models.OrderStatus, details map[string]interface{}) (bool, error)
}

// SubscriptionStore creates subscription records on successful settlement
type SubscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
}

// CredentialStore reads gateway credentials; it returns (nil, nil) when no
// record exists for the gateway.
type CredentialStore interface {
	Find(ctx context.Context, gw models.PaymentGateway) (*models.GatewayCredential, error)
}

// CallbackHistoryStore appends an audit record per inbound notification
type CallbackHistoryStore interface {
	Record(ctx context.Context, entry *models.PaymentCallbackHistory) error
}

// TaskScheduler enqueues background work, such as receipt emails
type TaskScheduler interface {
	Enqueue(ctx context.Context, task *models.ScheduledTask) error
}

// SettlementService orchestrates order creation, gateway dispatch and
// callback handling.
type SettlementService struct {
	orders     OrderStore
	subs       SubscriptionStore
	creds      CredentialStore
	history    CallbackHistoryStore
	tasks      TaskScheduler
	newAdapter gateways.Builder

	successURL  string
	cancelURL   string
	callbackURL string
}

// SettlementConfig carries the redirect targets handed to gateway adapters
type SettlementConfig struct {
	SuccessURL  string
	CancelURL   string
	CallbackURL string
}

func NewSettlementService(
	orders OrderStore,
	subs SubscriptionStore,
	creds CredentialStore,
	history CallbackHistoryStore,
	tasks TaskScheduler,
	cfg SettlementConfig,
) *SettlementService {
	return &SettlementService{
		orders:      orders,
		subs:        subs,
		creds:       creds,
		history:     history,
		tasks:       tasks,
		newAdapter:  gateways.New,
		successURL:  cfg.SuccessURL,
		cancelURL:   cfg.CancelURL,
		callbackURL: cfg.CallbackURL,
	}
}

// resolveAdapter looks up credentials (stored record first, environment as the
// legacy fallback) and constructs the matching adapter.
func (s *SettlementService) resolveAdapter(ctx context.Context, gw models.PaymentGateway) (gateways.Adapter, error) {
	cred, err := s.creds.Find(ctx, gw)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		cred = gateways.FromEnv(gw)
	}
	if !cred.IsActive {
		return nil, fmt.Errorf("%w: %s", gateways.ErrNotConfigured, gw)
	}
	return s.newAdapter(cred)
}

// CreateSessionResult pairs the created order with the adapter's opaque
// session payload.
type CreateSessionResult struct {
	Order   *models.Order
	Session gateways.Session
}

// CreateSession persists a pending order and dispatches to the gateway.
// Repeated calls with identical parameters create independent orders; there
// is deliberately no dedup at this step.
func (s *SettlementService) CreateSession(ctx context.Context, gatewayName, planID, userID string, amount float64, currency string) (*CreateSessionResult, error) {
	gw, err := models.ParsePaymentGateway(gatewayName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if len(strings.TrimSpace(currency)) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidRequest)
	}
	if planID == "" || userID == "" {
		return nil, fmt.Errorf("%w: planId and userId are required", ErrInvalidRequest)
	}

	// Adapter construction validates credential sub-fields before any
	// order is written or any network call is attempted
	adapter, err := s.resolveAdapter(ctx, gw)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:       models.NewOrderID(),
		UserID:   userID,
		PlanID:   planID,
		Amount:   amount,
		Currency: strings.ToUpper(currency),
		Gateway:  gw,
		Status:   models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	session, err := adapter.CreateRemoteSession(ctx, gateways.SessionRequest{
		OrderID:     order.ID,
		UserID:      userID,
		PlanID:      planID,
		Amount:      amount,
		Currency:    order.Currency,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		return nil, err
	}

	return &CreateSessionResult{Order: order, Session: session}, nil
}

// CallbackOutcome is the observable result of one processed notification
type CallbackOutcome struct {
	OrderID      string
	Succeeded    bool
	Replayed     bool
	Subscription *models.Subscription
}

// HandleEncryptedCallback processes a redirect-based notification carrying an
// encrypted payload. The order transition is conditional on the order still
// being pending, so a replayed notification updates nothing and creates no
// second subscription.
func (s *SettlementService) HandleEncryptedCallback(ctx context.Context, gatewayName, rawPayload string) (*CallbackOutcome, error) {
	gw, err := models.ParsePaymentGateway(gatewayName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	adapter, err := s.resolveAdapter(ctx, gw)
	if err != nil {
		return nil, err
	}
	parser, ok := adapter.(gateways.CallbackParser)
	if !ok {
		return nil, fmt.Errorf("gateway %s does not use encrypted redirect callbacks", gw)
	}

	result, err := parser.ParseCallback(rawPayload)
	if err != nil {
		// Audit the rejected payload too; the order is left untouched
		s.recordCallback(ctx, gw, "", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	details := make(map[string]interface{}, len(result.Params))
	for k, v := range result.Params {
		details[k] = v
	}
	s.recordCallback(ctx, gw, result.OrderID, details)

	outcome := &CallbackOutcome{OrderID: result.OrderID, Succeeded: result.Succeeded}

	if !result.Succeeded {
		moved, err := s.orders.MarkTerminal(ctx, result.OrderID, models.OrderStatusFailed, details)
		if err != nil {
			return nil, fmt.Errorf("failed to update order %s: %w", result.OrderID, err)
		}
		if !moved {
			return s.replayOutcome(ctx, result.OrderID)
		}
		return outcome, nil
	}

	moved, err := s.orders.MarkTerminal(ctx, result.OrderID, models.OrderStatusSuccess, details)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", result.OrderID, err)
	}
	if !moved {
		return s.replayOutcome(ctx, result.OrderID)
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:    result.UserID,
		PlanID:    result.PlanID,
		OrderID:   result.OrderID,
		Status:    models.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, SubscriptionValidityDays),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription for order %s: %w", result.OrderID, err)
	}
	outcome.Subscription = sub

	s.enqueueReceipt(ctx, sub)

	return outcome, nil
}

// replayOutcome reports the stored terminal state when the conditional write
// matched no pending row. The notification's own claimed status is ignored: a
// forged or unknown order id is rejected, and a replayed success against an
// order that actually failed reports the failure.
func (s *SettlementService) replayOutcome(ctx context.Context, orderID string) (*CallbackOutcome, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown order %q", gateways.ErrInvalidCallback, orderID)
	}
	return &CallbackOutcome{
		OrderID:   orderID,
		Succeeded: order.Status == models.OrderStatusSuccess,
		Replayed:  true,
	}, nil
}

// GetOrder exposes the read path for status lookups
func (s *SettlementService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *SettlementService) recordCallback(ctx context.Context, gw models.PaymentGateway, orderID string, metadata map[string]interface{}) {
	if s.history == nil {
		return
	}
	entry := &models.PaymentCallbackHistory{
		PaymentGateway: gw,
		OrderID:        orderID,
		Metadata:       metadata,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		log.Printf("Failed to record callback history for order %s: %v", orderID, err)
	}
}

func (s *SettlementService) enqueueReceipt(ctx context.Context, sub *models.Subscription) {
	if s.tasks == nil {
		return
	}
	task := &models.ScheduledTask{
		TaskName: "send_payment_receipt",
		Arguments: map[string]interface{}{
			"order_id": sub.OrderID,
			"user_id":  sub.UserID,
			"plan_id":  sub.PlanID,
		},
		Due:        time.Now(),
		Status:     models.ScheduledTaskStatusActive,
		TaskType:   models.ScheduledTaskTypeOneTime,
		MaxAttempt: 3,
	}
	if err := s.tasks.Enqueue(ctx, task); err != nil {
		log.Printf("Failed to enqueue receipt task for order %s: %v", sub.OrderID, err)
	}
}

// IsCallerError reports whether a settlement error should surface as a 4xx
func IsCallerError(err error) bool {
	var misconfigured *gateways.MisconfiguredError
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, gateways.ErrNotConfigured) ||
		errors.Is(err, gateways.ErrInvalidCallback) ||
		errors.As(err, &misconfigured)
}
