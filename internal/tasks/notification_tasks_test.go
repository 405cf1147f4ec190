package tasks

import (
	"context"
	"encoding/json"
	"testing"

	"qrnest_app_echo/internal/models"
)

func TestSendPaymentEmailArgsMatchReceiptTask(t *testing.T) {
	// the settlement flow enqueues receipt tasks with these exact keys; they
	// must round-trip into the typed args the handler decodes
	enqueued := map[string]interface{}{
		"order_id": "ord-1",
		"user_id":  "uid-1",
		"plan_id":  "plan_pro",
	}

	raw, err := json.Marshal(enqueued)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var args SendPaymentEmailArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if args.OrderID != "ord-1" || args.UserID != "uid-1" || args.PlanID != "plan_pro" {
		t.Errorf("decoded args = %+v", args)
	}
}

func TestSendPaymentEmailRequiresUserID(t *testing.T) {
	task := models.ScheduledTask{
		TaskName:  SendPaymentEmailTask.TaskID(),
		Arguments: map[string]interface{}{"plan_id": "plan_pro", "order_id": "ord-1"},
	}

	// must reject before any database lookup
	if _, err := SendPaymentEmailTask.HandleExecution(context.Background(), nil, task); err == nil {
		t.Error("HandleExecution() accepted a task without user_id")
	}
}

func TestReplacePlaceholders(t *testing.T) {
	user := models.User{Name: "Ada", Email: "ada@example.com"}
	args := SendPaymentEmailArgs{
		PlanID:  "plan_pro",
		OrderID: "ord-1",
		EndDate: "2026-09-29",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "receipt template",
			template: "Hi $name, we received your payment for plan $plan_id (order $order_id).",
			want:     "Hi Ada, we received your payment for plan plan_pro (order ord-1).",
		},
		{
			name:     "reminder template",
			template: "Your plan $plan_id expires on $end_date.",
			want:     "Your plan plan_pro expires on 2026-09-29.",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replacePlaceholders(tt.template, user, args); got != tt.want {
				t.Errorf("replacePlaceholders() = %q; want %q", got, tt.want)
			}
		})
	}
}
