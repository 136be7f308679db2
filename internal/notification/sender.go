// Package notification implements the operator inbox.
//
// Notifications are synchronous DB writes in the caller's context; external
// push channels (email, SMS) are a later concern and would go through the
// job queue instead.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/service"
)

// Notification type constants.
const (
	TypeFertileWindow      = "FERTILE_WINDOW"
	TypeBreedingRecorded   = "BREEDING_RECORDED"
	TypeProgesteroneResult = "PROGESTERONE_RESULT"
)

// Params holds the fields for creating one inbox entry.
type Params struct {
	Type         string
	Title        string
	Message      string
	ResourceType string // e.g. "cycle", "dog"
	ResourceID   string
}

// Sender writes notifications to the inbox.
type Sender interface {
	Send(ctx context.Context, params Params) error
}

// InboxSender writes notifications to the database synchronously.
type InboxSender struct {
	store service.Storage
}

// NewInboxSender creates an inbox sender.
func NewInboxSender(store service.Storage) *InboxSender {
	return &InboxSender{store: store}
}

// Send stores a single notification.
func (s *InboxSender) Send(ctx context.Context, params Params) error {
	if params.Title == "" || params.Message == "" {
		return fmt.Errorf("notification title and message are required")
	}

	n := &domain.Notification{
		ID:           uuid.NewString(),
		Type:         params.Type,
		Title:        params.Title,
		Message:      params.Message,
		ResourceType: params.ResourceType,
		ResourceID:   params.ResourceID,
	}
	if err := s.store.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	logger.Debug("notification sent",
		zap.String("type", params.Type),
		zap.String("title", params.Title),
	)
	return nil
}

// compile-time check
var _ Sender = (*InboxSender)(nil)
