package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"qrnest_app_echo/internal/models"
	"qrnest_app_echo/internal/services"
)

// SendPaymentEmailArgs defines the arguments for a payment-related email,
// used for both settlement receipts and renewal reminders.
type SendPaymentEmailArgs struct {
	UserID   string `json:"user_id"`
	PlanID   string `json:"plan_id"`
	OrderID  string `json:"order_id"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	EndDate  string `json:"end_date"`
}

// SendPaymentEmailTaskDef encapsulates payment email delivery
type SendPaymentEmailTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendPaymentEmailTaskDef) TaskID() string {
	return "send_payment_receipt"
}

// HandleExecution resolves the recipient and sends the email. Failed sends
// are rescheduled by the worker up to the task's MaxAttempt.
func (t *SendPaymentEmailTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	argsBytes, err := json.Marshal(task.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var args SendPaymentEmailArgs
	if err := json.Unmarshal(argsBytes, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if args.UserID == "" {
		return nil, fmt.Errorf("user_id not provided")
	}

	var user models.User
	if err := db.Where("firebase_uid = ?", args.UserID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", args.UserID, err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("user %s has no email address", args.UserID)
	}

	subject := args.Subject
	if subject == "" {
		subject = "Payment received"
	}
	template := args.Template
	if template == "" {
		template = "Hi $name, we received your payment for plan $plan_id (order $order_id). Your subscription is active."
	}

	body := replacePlaceholders(template, user, args)

	emailService := services.NewEmailService()
	if err := emailService.SendEmail([]string{user.Email}, subject, body); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":  "success",
		"to":      user.Email,
		"sent_at": time.Now().Format(time.RFC3339),
	}, nil
}

// SendPaymentEmailTask is the singleton instance of SendPaymentEmailTaskDef
var SendPaymentEmailTask = &SendPaymentEmailTaskDef{}

func replacePlaceholders(template string, user models.User, args SendPaymentEmailArgs) string {
	res := strings.ReplaceAll(template, "$name", user.Name)
	res = strings.ReplaceAll(res, "$email", user.Email)
	res = strings.ReplaceAll(res, "$plan_id", args.PlanID)
	res = strings.ReplaceAll(res, "$order_id", args.OrderID)
	res = strings.ReplaceAll(res, "$end_date", args.EndDate)
	return res
}
