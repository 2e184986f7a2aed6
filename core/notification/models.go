package notification

import (
	"time"

	"github.com/darasahub/darasa/core"
)

type Notification struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	FromID       string    `json:"from_id,omitempty"`
	FromUsername string    `json:"from_username,omitempty"`
	FromAvatar   string    `json:"from_avatar,omitempty"`
	ToID         string    `json:"to_id"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewNotification contains information needed to send a notification.
type NewNotification struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	To      string `json:"to" validate:"required"`
}

func (nn *NewNotification) Validate() error {
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	nn.To = core.CleanString(nn.To)
	return core.Validate.Struct(nn)
}
