package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
)

// ExpireSubscriptionsTaskDef sweeps subscriptions whose validity window has
// passed, marking them expired for reporting. Entitlement checks always
// compute expiry from EndDate at read time; this sweep only keeps the stored
// status honest for dashboards.
type ExpireSubscriptionsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *ExpireSubscriptionsTaskDef) TaskID() string {
	return "expire_subscriptions"
}

// CreateTask builds the recurring sweep, defaulting to a daily schedule
func (t *ExpireSubscriptionsTaskDef) CreateTask(interval string) (*models.ScheduledTask, error) {
	if interval == "" {
		interval = "FREQ=DAILY"
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, time.Now(), &interval, models.ScheduledTaskTypeRecurring, 1)
}

// HandleExecution marks past-EndDate active subscriptions as expired
func (t *ExpireSubscriptionsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	res := db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, time.Now()).
		Update("status", models.SubscriptionStatusExpired)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to expire subscriptions: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		log.Printf("[Task: expire_subscriptions] Marked %d subscriptions expired", res.RowsAffected)
	}

	return map[string]interface{}{
		"status":  "success",
		"expired": res.RowsAffected,
	}, nil
}

// ExpireSubscriptionsTask is the singleton instance of ExpireSubscriptionsTaskDef
var ExpireSubscriptionsTask = &ExpireSubscriptionsTaskDef{}

// PlanRenewalReminderTaskDef emails users whose subscriptions end within the
// next few days, inviting them to renew.
type PlanRenewalReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *PlanRenewalReminderTaskDef) TaskID() string {
	return "plan_renewal_reminder"
}

// CreateTask builds the recurring reminder for one plan, following the
// plan's own billing interval when it has one.
func (t *PlanRenewalReminderTaskDef) CreateTask(plan models.Plan) (*models.ScheduledTask, error) {
	return BuildScheduledTask(
		t.TaskID(),
		map[string]interface{}{"plan_code": plan.Code},
		plan.NextRenewal(time.Now()),
		plan.BillingInterval,
		models.ScheduledTaskTypeRecurring,
		1,
	)
}

// HandleExecution enqueues one reminder email per soon-to-expire subscription
func (t *PlanRenewalReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	planCode, _ := task.Arguments["plan_code"].(string)
	if planCode == "" {
		return nil, fmt.Errorf("plan_code not provided")
	}

	cutoff := time.Now().AddDate(0, 0, 3)
	var subs []models.Subscription
	err := db.WithContext(ctx).
		Where("plan_id = ? AND status = ? AND end_date BETWEEN ? AND ?",
			planCode, models.SubscriptionStatusActive, time.Now(), cutoff).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring subscriptions: %w", err)
	}

	enqueued := 0
	for _, sub := range subs {
		reminder, err := BuildScheduledTask(
			SendPaymentEmailTask.TaskID(),
			SendPaymentEmailArgs{
				UserID:   sub.UserID,
				PlanID:   sub.PlanID,
				OrderID:  sub.OrderID,
				Subject:  "Your qrnest plan is about to expire",
				Template: "Hi $name, your plan $plan_id expires on $end_date. Renew to keep your QR codes live.",
				EndDate:  sub.EndDate.Format("2006-01-02"),
			},
			time.Now(),
			nil,
			models.ScheduledTaskTypeOneTime,
			3,
		)
		if err != nil {
			log.Printf("Failed to build reminder for subscription %d: %v", sub.ID, err)
			continue
		}
		if err := db.Create(reminder).Error; err != nil {
			log.Printf("Failed to enqueue reminder for subscription %d: %v", sub.ID, err)
			continue
		}
		enqueued++
	}

	return map[string]interface{}{
		"status":   "success",
		"matched":  len(subs),
		"enqueued": enqueued,
	}, nil
}

// PlanRenewalReminderTask is the singleton instance of PlanRenewalReminderTaskDef
var PlanRenewalReminderTask = &PlanRenewalReminderTaskDef{}
