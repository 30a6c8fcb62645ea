// Package analytics maintains incremental counters in the fast key-value
// store, keyed by UTC calendar day. The aggregator never recomputes from the
// event log; every effect is a single atomic increment, which keeps the read
// path at O(1) regardless of event volume.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "analytics"

type Aggregator struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) Aggregator {
	return Aggregator{
		rdb: rdb,
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (a Aggregator) RecordBookingCreated(ctx context.Context, bookingType string, at time.Time) error {
	day := dayKey(at)

	pipe := a.rdb.Pipeline()
	pipe.Incr(ctx, fmt.Sprintf("%s:bookings:count:%s", keyPrefix, day))
	pipe.Incr(ctx, fmt.Sprintf("%s:bookings:type:%s:%s", keyPrefix, bookingType, day))
	pipe.Incr(ctx, fmt.Sprintf("%s:bookings:total", keyPrefix))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing booking counters: %w", err)
	}

	return nil
}

func (a Aggregator) RecordBookingStatus(ctx context.Context, status string, at time.Time) error {
	key := fmt.Sprintf("%s:bookings:status:%s:%s", keyPrefix, status, dayKey(at))
	if err := a.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("incrementing status counter: %w", err)
	}

	return nil
}

// RecordPaymentSucceeded adds the amount to the running revenue sums. Refunds
// arrive as negative amounts and reduce revenue accordingly.
func (a Aggregator) RecordPaymentSucceeded(ctx context.Context, amount float64, at time.Time) error {
	day := dayKey(at)

	pipe := a.rdb.Pipeline()
	pipe.IncrByFloat(ctx, fmt.Sprintf("%s:revenue:%s", keyPrefix, day), amount)
	pipe.IncrByFloat(ctx, fmt.Sprintf("%s:revenue:total", keyPrefix), amount)
	pipe.Incr(ctx, fmt.Sprintf("%s:payments:succeeded:%s", keyPrefix, day))
	pipe.Incr(ctx, fmt.Sprintf("%s:payments:succeeded:total", keyPrefix))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing payment counters: %w", err)
	}

	return nil
}

func (a Aggregator) RecordPaymentFailed(ctx context.Context, at time.Time) error {
	key := fmt.Sprintf("%s:payments:failed:%s", keyPrefix, dayKey(at))
	if err := a.rdb.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("incrementing failure counter: %w", err)
	}

	return nil
}
