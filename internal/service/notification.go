package service

import (
	"log/slog"
	"time"

	"github.com/netslap-dev/netslap/shared/config"
	"github.com/netslap-dev/netslap/shared/domain"
)

type NotificationService interface {
	Notify(owner domain.UserId, title, description, meta string)
	List(owner domain.UserId, limit int) ([]domain.Notification, error)
	MarkSeen(owner domain.UserId) error
}

type NotificationStorage interface {
	CreateNotification(owner domain.UserId, title, description, meta string) (domain.Notification, error)
	GetNotifications(owner domain.UserId, limit int) ([]domain.Notification, error)
	MarkNotificationsSeen(owner domain.UserId, at time.Time) error
}

type Notification struct {
	storage NotificationStorage
	cfg     config.Public
}

func NewNotification(storage NotificationStorage, cfg config.Public) *Notification {
	return &Notification{storage, cfg}
}

// Notify is best-effort: a notification that cannot be stored is logged and
// dropped, the triggering operation already succeeded.
func (n *Notification) Notify(owner domain.UserId, title, description, meta string) {
	if _, err := n.storage.CreateNotification(owner, title, description, meta); err != nil {
		slog.Warn("failed to store notification", "owner", owner, "title", title, "error", err)
	}
}

func (n *Notification) List(owner domain.UserId, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > n.cfg.MaxNotifListResults {
		limit = n.cfg.MaxNotifListResults
	}
	return n.storage.GetNotifications(owner, limit)
}

func (n *Notification) MarkSeen(owner domain.UserId) error {
	return n.storage.MarkNotificationsSeen(owner, time.Now())
}
