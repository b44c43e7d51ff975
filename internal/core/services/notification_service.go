package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

const (
	notificationPageSize = 20
	pushTimeout          = 5 * time.Second
)

type notificationService struct {
	repo      ports.NotificationRepository
	presence  ports.PresenceRegistry
	publisher ports.EventPublisher
}

func NewNotificationService(
	repo ports.NotificationRepository,
	presence ports.PresenceRegistry,
	publisher ports.EventPublisher,
) ports.NotificationService {
	return &notificationService{
		repo:      repo,
		presence:  presence,
		publisher: publisher,
	}
}

// Emit is the fan-out pipeline: suppress self-actions, persist, mirror the
// event, then push to every live connection of the recipient. It runs after
// the caller's primary mutation already committed, so nothing here may fail
// the caller: storage errors are logged and the persisted-but-not-pushed
// fallback is by contract acceptable.
func (s *notificationService) Emit(ctx context.Context, recipientID, senderID string, kind domain.NotificationKind, postID string) {
	// Single authority for self-action suppression, before persistence.
	if recipientID == senderID || recipientID == "" || senderID == "" {
		return
	}

	n := domain.NewNotification(recipientID, senderID, kind, postID)

	if err := s.repo.Save(ctx, n); err != nil {
		// The primary mutation is already durable; losing the notification
		// beats failing the request after commit.
		slog.Error("❌ Notification persist failed", "recipient", recipientID, "kind", kind, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
		return
	}

	// Best-effort mirror for external consumers (future multi-node presence).
	if err := s.publisher.PublishNotificationCreated(ctx, n); err != nil {
		slog.Warn("⚠️ Notification event publish failed", "notification_id", n.ID, "error", err)
	}

	handles := s.presence.Lookup(recipientID)
	if len(handles) == 0 {
		slog.Debug("📭 Recipient offline, notification stored only", "recipient", recipientID)
		return
	}

	// The push must not sit on the mutator's response path. The goroutine
	// carries the trace context but detaches from the request's cancellation.
	go s.pushToHandles(context.WithoutCancel(ctx), n, handles)
}

func (s *notificationService) pushToHandles(ctx context.Context, n *domain.Notification, handles []ports.Connection) {
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	tracer := otel.Tracer("notifier")
	_, span := tracer.Start(ctx, "push_notification", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	// One failed handle must not prevent delivery to the others.
	for _, h := range handles {
		if err := h.Push(n); err != nil {
			span.RecordError(err)
			slog.Warn("⚠️ Push failed, recipient keeps the stored notification",
				"recipient", n.RecipientID, "connection", h.ID(), "error", err)
		}
	}
}

func (s *notificationService) ListForRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > notificationPageSize {
		limit = notificationPageSize
	}
	return s.repo.ListForRecipient(ctx, userID, limit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
