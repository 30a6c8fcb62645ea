package message

import (
	"context"
	"fmt"
	"travel/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/redis/go-redis/v9"
)

// Publisher appends domain events to the durable ordered log. Publishing is
// fire-and-forget relative to the request path: callers log failures and move
// on, because the transactional store already committed.
type Publisher struct {
	bus *cqrs.EventBus
}

func NewPublisher(redisClient *redis.Client, logger watermill.LoggerAdapter) (*Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	decoratedPublisher := log.CorrelationPublisherDecorator{Publisher: publisher}

	bus, err := cqrs.NewEventBusWithConfig(decoratedPublisher, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: event.Marshaler(),
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	return &Publisher{bus: bus}, nil
}

func (p *Publisher) Publish(ctx context.Context, e any) error {
	return p.bus.Publish(ctx, e)
}
