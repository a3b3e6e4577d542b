package repository

import (
	"context"
	"fmt"

	"gamewin/database"
	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
)

// NotificationRepository implements the NotificationRepository interface
type NotificationRepository struct {
	q queryable
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{q: db.Pool}
}

// newNotificationRepositoryWithTx creates a new notification repository with a transaction
func newNotificationRepositoryWithTx(tx queryable) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err := r.q.QueryRow(ctx, query, n.UserID, n.Type, n.Title, n.Message).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return classify(err, "create notification")
	}
	return nil
}

// ListByUser returns the newest notifications of a user
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("list notifications of user %s", userID))
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate notifications")
	}
	return notifications, nil
}

// MarkRead flags a notification as read. Notifications of other users are
// reported as missing.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return classify(err, fmt.Sprintf("mark notification %d read", id))
	}
	if result.RowsAffected() == 0 {
		return service.ErrNotificationNotFound
	}
	return nil
}
