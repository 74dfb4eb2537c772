package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/task-manager/internal/config"
	"github.com/spec-kit/task-manager/internal/events"
)

// NotificationEvents lists the event types the notification service reacts to.
var NotificationEvents = []events.EventType{
	events.EventTaskAutoAssigned,
	events.EventTaskReassigned,
	events.EventReassignmentCompleted,
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// Handle routes one event to its notification.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventTaskAutoAssigned:
		n.logger.Info("TaskAutoAssigned", zap.String("project_id", event.ProjectID), zap.Any("payload", event.Payload))
		n.sendWebhookNotificationStub(ctx, event)
	case events.EventTaskReassigned:
		n.logger.Debug("TaskReassigned", zap.String("project_id", event.ProjectID), zap.Any("payload", event.Payload))
	case events.EventReassignmentCompleted:
		n.logger.Info("ReassignmentCompleted", zap.String("project_id", event.ProjectID), zap.Any("payload", event.Payload))
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("project_id", event.ProjectID),
		zap.String("event_type", string(event.Type)))
}
