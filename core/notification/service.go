package notification

import (
	"context"
	"errors"
	"time"

	"github.com/darasahub/darasa/core/user"
)

var (
	// errors
	ErrNotFound          = errors.New("notification not found")
	ErrRecipientNotFound = errors.New("recipient user not found")
	ErrNotRecipient      = errors.New("not authorized to access this notification")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		// QueryUserNotifications returns the recipient's inbox, newest first.
		QueryUserNotifications(ctx context.Context, toID string) ([]Notification, error)
		MarkRead(ctx context.Context, id string) (Notification, error)
		MarkAllRead(ctx context.Context, toID string) error
	}

	// RecipientChecker verifies that a notification recipient exists.
	RecipientChecker interface {
		GetUserByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users RecipientChecker
	}
)

func NewService(repo Repository, users RecipientChecker) *Service {
	return &Service{repo: repo, users: users}
}

// Send delivers a notification from sender to the recipient named in nn.
func (svc *Service) Send(ctx context.Context, sender user.User, nn NewNotification) (Notification, error) {
	if _, err := svc.users.GetUserByID(ctx, nn.To); err != nil {
		if err == user.ErrNotFound {
			return Notification{}, ErrRecipientNotFound
		}
		return Notification{}, err
	}
	n := Notification{
		Title:        nn.Title,
		Message:      nn.Message,
		FromID:       sender.ID,
		FromUsername: sender.Username,
		FromAvatar:   sender.Avatar,
		ToID:         nn.To,
		CreatedAt:    NowFunc().UTC(),
	}
	return svc.repo.CreateNotification(ctx, n)
}

func (svc *Service) QueryForUser(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryUserNotifications(ctx, userID)
}

// MarkRead flags a notification read. Only the recipient may do so.
func (svc *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if n.ToID != userID {
		return Notification{}, ErrNotRecipient
	}
	return svc.repo.MarkRead(ctx, id)
}

func (svc *Service) MarkAllRead(ctx context.Context, userID string) error {
	return svc.repo.MarkAllRead(ctx, userID)
}
