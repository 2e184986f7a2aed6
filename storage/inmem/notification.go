package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/notification"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(_ context.Context, n notification.Notification) (notification.Notification, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	n.ID = uuid.NewString()
	r.db.notifications[n.ID] = &n
	return n, nil
}

func (r *notificationRepository) GetNotificationByID(_ context.Context, id string) (notification.Notification, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if n, ok := r.db.notifications[id]; ok {
		return *n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (r *notificationRepository) QueryUserNotifications(_ context.Context, toID string) ([]notification.Notification, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]notification.Notification, 0)
	for _, n := range r.db.notifications {
		if n.ToID == toID {
			res = append(res, *n)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id string) (notification.Notification, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	n, ok := r.db.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	n.Read = true
	return *n, nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, toID string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, n := range r.db.notifications {
		if n.ToID == toID {
			n.Read = true
		}
	}
	return nil
}
