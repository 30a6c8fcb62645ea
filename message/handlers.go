package message

import (
	"context"
	"time"

	"travel/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

type Deduplicator interface {
	IsProcessed(ctx context.Context, messageID string) bool
	MarkProcessed(ctx context.Context, messageID string)
}

type Aggregator interface {
	RecordBookingCreated(ctx context.Context, bookingType string, at time.Time) error
	RecordBookingStatus(ctx context.Context, status string, at time.Time) error
	RecordPaymentSucceeded(ctx context.Context, amount float64, at time.Time) error
	RecordPaymentFailed(ctx context.Context, at time.Time) error
}

// Each handler follows the same shape: dedup check, apply the increment, mark
// processed. Failures are logged and the loop advances; there is no retry and
// no dead-letter routing, so an aggregation fault costs at most one counter
// update on a best-effort metric.

func handleBookingCreated(d Deduplicator, a Aggregator) func(ctx context.Context, e *event.BookingCreated) error {
	return func(ctx context.Context, e *event.BookingCreated) error {
		logger := log.FromContext(ctx)

		if d.IsProcessed(ctx, e.BookingID) {
			logger.WithField("booking_id", e.BookingID).Info("Skipping duplicate booking_created")
			return nil
		}

		if err := a.RecordBookingCreated(ctx, e.BookingType, e.Header.PublishedAt); err != nil {
			logger.WithError(err).Error("Failed to aggregate booking_created")
			return nil
		}

		d.MarkProcessed(ctx, e.BookingID)
		return nil
	}
}

func handleBookingUpdated(d Deduplicator, a Aggregator) func(ctx context.Context, e *event.BookingUpdated) error {
	return func(ctx context.Context, e *event.BookingUpdated) error {
		logger := log.FromContext(ctx)

		if d.IsProcessed(ctx, e.Header.ID) {
			logger.WithField("booking_id", e.BookingID).Info("Skipping duplicate booking_updated")
			return nil
		}

		if err := a.RecordBookingStatus(ctx, e.Status, e.Header.PublishedAt); err != nil {
			logger.WithError(err).Error("Failed to aggregate booking_updated")
			return nil
		}

		d.MarkProcessed(ctx, e.Header.ID)
		return nil
	}
}

func handlePaymentSucceeded(d Deduplicator, a Aggregator) func(ctx context.Context, e *event.PaymentSucceeded) error {
	return func(ctx context.Context, e *event.PaymentSucceeded) error {
		logger := log.FromContext(ctx)

		if d.IsProcessed(ctx, e.PaymentID) {
			logger.WithField("payment_id", e.PaymentID).Info("Skipping duplicate payment_succeeded")
			return nil
		}

		if err := a.RecordPaymentSucceeded(ctx, e.Amount, e.Header.PublishedAt); err != nil {
			logger.WithError(err).Error("Failed to aggregate payment_succeeded")
			return nil
		}

		d.MarkProcessed(ctx, e.PaymentID)
		return nil
	}
}

func handlePaymentFailed(d Deduplicator, a Aggregator) func(ctx context.Context, e *event.PaymentFailed) error {
	return func(ctx context.Context, e *event.PaymentFailed) error {
		logger := log.FromContext(ctx)

		if d.IsProcessed(ctx, e.Header.ID) {
			logger.WithField("booking_id", e.BookingID).Info("Skipping duplicate payment_failed")
			return nil
		}

		if err := a.RecordPaymentFailed(ctx, e.Header.PublishedAt); err != nil {
			logger.WithError(err).Error("Failed to aggregate payment_failed")
			return nil
		}

		d.MarkProcessed(ctx, e.Header.ID)
		return nil
	}
}
