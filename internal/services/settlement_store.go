package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
)

// SettlementStores bundles the GORM-backed implementations of the settlement
// coordinator's storage ports.
type SettlementStores struct {
	Orders  OrderStore
	Subs    SubscriptionStore
	Creds   CredentialStore
	History CallbackHistoryStore
	Tasks   TaskScheduler
}

func NewSettlementStores(db *gorm.DB) *SettlementStores {
	return &SettlementStores{
		Orders:  &gormOrderStore{db: db},
		Subs:    &gormSubscriptionStore{db: db},
		Creds:   &gormCredentialStore{db: db},
		History: &gormCallbackHistoryStore{db: db},
		Tasks:   &gormTaskScheduler{db: db},
	}
}

type gormOrderStore struct {
	db *gorm.DB
}

func (s *gormOrderStore) Create(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *gormOrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkTerminal updates only where the status is still pending, so a replayed
// callback affects zero rows and is reported as such.
func (s *gormOrderStore) MarkTerminal(ctx context.Context, id string, status models.OrderStatus, details map[string]interface{}) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(&models.Order{
			Status:         status,
			PaymentDetails: details,
			UpdatedAt:      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type gormSubscriptionStore struct {
	db *gorm.DB
}

func (s *gormSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

type gormCredentialStore struct {
	db *gorm.DB
}

func (s *gormCredentialStore) Find(ctx context.Context, gw models.PaymentGateway) (*models.GatewayCredential, error) {
	var cred models.GatewayCredential
	err := s.db.WithContext(ctx).Where("gateway = ?", gw).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // fall back to the environment path
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// cachedCredentialStore fronts the credential store with a short-lived Redis
// cache. Credential records change rarely and are read on every settlement
// request.
type cachedCredentialStore struct {
	inner CredentialStore
	cache *RedisCache
}

// NewCachedCredentialStore wraps a credential store; a nil cache passes reads
// straight through.
func NewCachedCredentialStore(inner CredentialStore, cache *RedisCache) CredentialStore {
	if cache == nil {
		return inner
	}
	return &cachedCredentialStore{inner: inner, cache: cache}
}

func (s *cachedCredentialStore) Find(ctx context.Context, gw models.PaymentGateway) (*models.GatewayCredential, error) {
	key := fmt.Sprintf("gateway_credential:%s", gw)
	return GetOrSet(s.cache, ctx, key, 5*time.Minute, func() (*models.GatewayCredential, error) {
		return s.inner.Find(ctx, gw)
	})
}

type gormCallbackHistoryStore struct {
	db *gorm.DB
}

func (s *gormCallbackHistoryStore) Record(ctx context.Context, entry *models.PaymentCallbackHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

type gormTaskScheduler struct {
	db *gorm.DB
}

func (s *gormTaskScheduler) Enqueue(ctx context.Context, task *models.ScheduledTask) error {
	return s.db.WithContext(ctx).Create(task).Error
}
