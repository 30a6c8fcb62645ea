package message

import (
	"fmt"

	"travel/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Aggregator      Aggregator
	Logger          watermill.LoggerAdapter
	NewDeduplicator func(domain string) Deduplicator
	RedisClient     *redis.Client
}

type Router struct {
	*message.Router
}

// NewRouter wires the analytics consumer. Each handler gets its own consumer
// group (independent offsets per effect) and its own dedup domain, so a
// message id is tracked per (messageId, consumer-group).
func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	router.AddMiddleware(correlationIDMiddleware)
	router.AddMiddleware(loggerMiddleware)
	router.AddMiddleware(handlerLogMiddleware)

	config := cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        deps.RedisClient,
				ConsumerGroup: "svc-analytics." + params.HandlerName,
			}, deps.Logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: event.Marshaler(),
		Logger:    deps.Logger,
	}

	ep, err := cqrs.NewEventProcessorWithConfig(router, config)
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	handlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("aggregate-booking-created",
			handleBookingCreated(deps.NewDeduplicator("analytics:booking_created"), deps.Aggregator)),
		cqrs.NewEventHandler("aggregate-booking-updated",
			handleBookingUpdated(deps.NewDeduplicator("analytics:booking_updated"), deps.Aggregator)),
		cqrs.NewEventHandler("aggregate-payment-succeeded",
			handlePaymentSucceeded(deps.NewDeduplicator("analytics:payment_succeeded"), deps.Aggregator)),
		cqrs.NewEventHandler("aggregate-payment-failed",
			handlePaymentFailed(deps.NewDeduplicator("analytics:payment_failed"), deps.Aggregator)),
	}

	if err := ep.AddHandlers(handlers...); err != nil {
		return nil, fmt.Errorf("adding handlers: %w", err)
	}

	return &Router{router}, nil
}
