package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

const (
	SubjectPostCreated         = "post.created"
	SubjectPostDeleted         = "post.deleted"
	SubjectNotificationCreated = "notification.created"
)

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// PostEvent is the implicit contract with the feed fan-out consumer.
type PostEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Type      string    `json:"type"` // "post" or "image"
	CreatedAt time.Time `json:"created_at"`
}

// NotificationEvent mirrors a persisted notification for external consumers
// (e.g. a future cross-node presence broadcaster). Nothing in this process
// consumes it.
type NotificationEvent struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	SenderID    string    `json:"sender_id"`
	Kind        string    `json:"kind"`
	PostID      string    `json:"post_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostCreated, postEvent(post))
}

func (p *NatsPublisher) PublishPostDeleted(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostDeleted, postEvent(post))
}

func (p *NatsPublisher) PublishNotificationCreated(ctx context.Context, n *domain.Notification) error {
	return p.publish(ctx, SubjectNotificationCreated, NotificationEvent{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Kind:        string(n.Kind),
		PostID:      n.PostID,
		CreatedAt:   n.CreatedAt,
	})
}

func postEvent(post *domain.Post) PostEvent {
	contentType := string(domain.TypePost)
	if post.ImageURL != "" {
		contentType = string(domain.TypeImage)
	}
	return PostEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Type:      contentType,
		CreatedAt: post.CreatedAt,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Carry the trace context into the broker headers so consumers can link
	// their spans back to the originating request.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("📢 Publishing event", "subject", subject)
	return p.nc.PublishMsg(msg)
}
