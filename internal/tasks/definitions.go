package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	// Register general tasks
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)

	// Register subscription maintenance tasks
	RegisterHandler(ExpireSubscriptionsTask.TaskID(), ExpireSubscriptionsTask.HandleExecution)
	RegisterHandler(PlanRenewalReminderTask.TaskID(), PlanRenewalReminderTask.HandleExecution)

	// Register notification tasks
	RegisterHandler(SendPaymentEmailTask.TaskID(), SendPaymentEmailTask.HandleExecution)
}
