package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sprint-board-api/internal/client"
	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/metrics"
)

// ServiceDispatcher forwards events to the notification service. With a
// coalescer attached, each recipient gets one toast per item per window.
type ServiceDispatcher struct {
	client    client.NotificationClient
	coalescer *Coalescer
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewServiceDispatcher creates a dispatcher. window <= 0 disables coalescing.
func NewServiceDispatcher(c client.NotificationClient, window, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *ServiceDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	d := &ServiceDispatcher{
		client:  c,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
	if window > 0 {
		d.coalescer = NewCoalescer(window, d.sendToast)
	}
	return d
}

// Dispatch implements Dispatcher
func (d *ServiceDispatcher) Dispatch(ctx context.Context, event domain.ItemUpdateEvent) {
	if d.coalescer == nil {
		err := d.client.SendBulkNotifications(ctx, client.NotificationsFor(event))
		d.record(err)
		return
	}
	for _, userID := range event.Recipients() {
		d.coalescer.Add(userID, event)
	}
}

// Close flushes pending toasts
func (d *ServiceDispatcher) Close() {
	if d.coalescer != nil {
		d.coalescer.Flush()
	}
}

func (d *ServiceDispatcher) sendToast(userID uuid.UUID, toast Toast) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.client.SendNotification(ctx, ToastNotification(userID, toast))
	if err != nil {
		d.logger.Warn("failed to send coalesced notification",
			zap.String("user_id", userID.String()),
			zap.String("item_id", toast.ItemID.String()),
			zap.Error(err),
		)
	}
	d.record(err)
}

func (d *ServiceDispatcher) record(err error) {
	if d.metrics != nil {
		d.metrics.RecordNotification("http", err)
	}
}

// ToastNotification converts a toast into the notification service payload
func ToastNotification(userID uuid.UUID, toast Toast) client.NotificationEvent {
	return client.NotificationEvent{
		Type:         client.NotificationItemUpdated,
		ActorID:      toast.ActorID,
		TargetUserID: userID,
		BoardID:      toast.BoardID,
		ResourceType: "work_item",
		ResourceID:   toast.ItemID,
		ResourceName: toast.Title,
		Metadata: map[string]interface{}{
			"changes":          toast.Changes,
			"highlightSection": toast.HighlightSection,
		},
		OccurredAt: toast.At.UTC().Format(time.RFC3339),
	}
}
