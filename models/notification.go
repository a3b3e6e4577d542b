package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType groups in-app notifications for display
type NotificationType string

const (
	NotificationTypeTournament NotificationType = "tournament"
	NotificationTypePrize      NotificationType = "prize"
	NotificationTypeRefund     NotificationType = "refund"
	NotificationTypeBonus      NotificationType = "bonus"
)

// Notification is an in-app message for one user
type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"userId"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	IsRead    bool             `db:"is_read" json:"isRead"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
