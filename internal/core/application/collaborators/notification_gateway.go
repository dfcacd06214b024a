package collaborators

import (
	"context"
	"log/slog"

	"parcel-dispatch/internal/core/domain/model/notification"
	"parcel-dispatch/internal/core/ports"
)

// NotificationGateway relays events to the requester's callback endpoint,
// falling back to a configured default.
type NotificationGateway struct {
	webhook    ports.WebhookSender
	defaultURL string
	logger     *slog.Logger
}

var _ ports.NotificationGateway = (*NotificationGateway)(nil)

func NewNotificationGateway(webhook ports.WebhookSender, defaultURL string, logger *slog.Logger) *NotificationGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationGateway{
		webhook:    webhook,
		defaultURL: defaultURL,
		logger:     logger.With("component", "notification_gateway"),
	}
}

func (g *NotificationGateway) Relay(ctx context.Context, event notification.Event) error {
	url := event.CallbackURL
	if url == "" {
		url = g.defaultURL
	}

	if url == "" || g.webhook == nil {
		g.logger.DebugContext(ctx, "no requester endpoint configured, event acknowledged locally",
			"event", string(event.Type),
			"parcel_id", event.ParcelID.String(),
		)
		return nil
	}

	return g.webhook.Send(ctx, url, event.Payload())
}
