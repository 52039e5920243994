package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBudgetOverspent NotificationType = "budget_overspent"
	NotificationGoalCompleted   NotificationType = "goal_completed"
)

// Notification lives in process memory only.
type Notification struct {
	ID        string           `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"createdAt"`
}
