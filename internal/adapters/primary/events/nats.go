// Package events drives the feed fan-out from broker messages, decoupling
// timeline writes from the post-creation response path.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/swathi-reddy30/pulse-app/internal/adapters/secondary/eventbroker"
	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

const fanoutTimeout = 30 * time.Second

type EventHandler struct {
	service ports.FeedService
}

func NewEventHandler(service ports.FeedService) *EventHandler {
	return &EventHandler{service: service}
}

// Subscribe wires the handler onto the broker subjects.
func (h *EventHandler) Subscribe(nc *nats.Conn) error {
	if _, err := nc.Subscribe(eventbroker.SubjectPostCreated, h.HandlePostCreated); err != nil {
		return err
	}
	_, err := nc.Subscribe(eventbroker.SubjectPostDeleted, h.HandlePostDeleted)
	return err
}

func (h *EventHandler) HandlePostCreated(msg *nats.Msg) {
	h.handle(msg, "process_post_created", h.service.DistributePost)
}

func (h *EventHandler) HandlePostDeleted(msg *nats.Msg) {
	h.handle(msg, "process_post_deleted", h.service.RetractPost)
}

func (h *EventHandler) handle(msg *nats.Msg, spanName string, op func(context.Context, *domain.FeedItem) error) {
	// Rebuild the trace context from the broker headers so the fan-out span
	// links back to the request that created the post.
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("feed-events")
	ctx, span := tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event eventbroker.PostEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}

	item := &domain.FeedItem{
		PostID:    event.ID,
		AuthorID:  event.AuthorID,
		Type:      domain.ContentType(event.Type),
		CreatedAt: event.CreatedAt,
	}

	// Fan-out runs in the background with its own deadline; the subscription
	// callback must stay fast.
	go func() {
		childCtx, cancel := context.WithTimeout(ctx, fanoutTimeout)
		defer cancel()

		if err := op(childCtx, item); err != nil {
			slog.Error("❌ Fan-out failed", "post_id", event.ID, "error", err)
		}
	}()
}
