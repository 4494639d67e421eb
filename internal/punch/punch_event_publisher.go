package punch

import (
	"context"

	"go-timeclock/internal/events"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/shared/contextutil"
)

// EventPublisher hands ledger changes to the downstream integration.
type EventPublisher interface {
	Publish(ctx context.Context, event events.PunchEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, events.PunchEvent) error {
	return nil
}

type outboxEventPublisher struct {
	outbox kafka.OutboxRepository
}

// NewOutboxEventPublisher queues punch events in the outbox table for the
// producer worker to deliver to Kafka.
func NewOutboxEventPublisher(outbox kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{outbox: outbox}
}

func (p *outboxEventPublisher) Publish(ctx context.Context, event events.PunchEvent) error {
	outboxEvent, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"punch",
		event.PunchID,
		event.EventType,
		events.PunchTopic,
		event,
	)
	if err != nil {
		return err
	}
	return p.outbox.Create(ctx, outboxEvent)
}
