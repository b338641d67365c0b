// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"time"

	"github.com/Skotchmaster/sdp_shop/pkg/logging"
)

const (
	TopicUsers    = "user_events"
	TopicProducts = "product_events"
	TopicCarts    = "cart_events"
)

const publishTimeout = 5 * time.Second

// Event is the JSON payload of a message. Every event carries a "type".
type Event map[string]any

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }

// Emit publishes best-effort: a failed publish is logged and never fails the
// operation that produced the event.
func Emit(ctx context.Context, p Publisher, topic, key string, event Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
