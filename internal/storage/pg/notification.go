package pg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/netslap-dev/netslap/shared/domain"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// CreateNotification stores the notification and bumps the owner's unread
// counter in one transaction so the badge count cannot drift from the list.
func (s *Storage) CreateNotification(owner domain.UserId, title, description, meta string) (domain.Notification, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n domain.Notification
	err = tx.QueryRow(`
        INSERT INTO notifications (owner_id, title, description, meta)
        VALUES ($1, $2, $3, $4)
        RETURNING id, date_alerted
    `, owner, title, description, meta).Scan(&n.Id, &n.Alerted)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to insert notification: %w", err)
	}

	result, err := tx.Exec("UPDATE users SET new_notifications = new_notifications + 1 WHERE id = $1", owner)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to bump notification counter: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Notification{}, internal_errors.NotFound("User not found")
	}

	if err := tx.Commit(); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	n.Owner = owner
	n.Title = title
	n.Description = description
	n.Meta = meta
	return n, nil
}

func (s *Storage) GetNotifications(owner domain.UserId, limit int) ([]domain.Notification, error) {
	rows, err := s.db.Query(`
        SELECT id, owner_id, title, description, meta, seen, date_seen, date_alerted
        FROM notifications
        WHERE owner_id = $1
        ORDER BY date_alerted DESC
        LIMIT $2
    `, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var dateSeen sql.NullTime
		if err := rows.Scan(&n.Id, &n.Owner, &n.Title, &n.Description, &n.Meta, &n.Seen, &dateSeen, &n.Alerted); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if dateSeen.Valid {
			n.DateSeen = &dateSeen.Time
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationsSeen marks all of the owner's notifications seen and
// resets the unread counter together.
func (s *Storage) MarkNotificationsSeen(owner domain.UserId, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        UPDATE notifications SET seen = TRUE, date_seen = $2 WHERE owner_id = $1 AND NOT seen
    `, owner, at); err != nil {
		return fmt.Errorf("failed to mark notifications seen: %w", err)
	}
	if _, err := tx.Exec("UPDATE users SET new_notifications = 0 WHERE id = $1", owner); err != nil {
		return fmt.Errorf("failed to reset notification counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
