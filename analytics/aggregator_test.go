package analytics_test

import (
	"context"
	"os"
	"testing"
	"time"
	"travel/analytics"
	"travel/dedup"
	"travel/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rdb *redis.Client

// Run the following before running the tests:
//
//	docker compose up -d
//	os.Setenv("REDIS_ADDR", "localhost:6379")
func TestMain(m *testing.M) {
	rdb = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})

	os.Exit(m.Run())
}

func TestAggregatorRecordsBookings(t *testing.T) {
	ctx := context.Background()
	a := analytics.New(rdb)

	before, err := a.Today(ctx)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, a.RecordBookingCreated(ctx, entity.BookingTypeFlight, now))
	require.NoError(t, a.RecordBookingCreated(ctx, entity.BookingTypeHotel, now))

	after, err := a.Today(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.Bookings.Total+2, after.Bookings.Total)
	assert.Equal(t, before.Bookings.ByType[entity.BookingTypeFlight]+1, after.Bookings.ByType[entity.BookingTypeFlight])
	assert.Equal(t, before.Bookings.ByType[entity.BookingTypeHotel]+1, after.Bookings.ByType[entity.BookingTypeHotel])
}

func TestAggregatorRecordsRevenue(t *testing.T) {
	ctx := context.Background()
	a := analytics.New(rdb)

	before, err := a.Today(ctx)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, a.RecordPaymentSucceeded(ctx, 150.50, now))
	// A refund arrives as a negative amount and reduces revenue.
	require.NoError(t, a.RecordPaymentSucceeded(ctx, -50.25, now))
	require.NoError(t, a.RecordPaymentFailed(ctx, now))

	after, err := a.Today(ctx)
	require.NoError(t, err)

	assert.InDelta(t, before.Revenue+100.25, after.Revenue, 0.001)
	assert.Equal(t, before.Payments.Succeeded+2, after.Payments.Succeeded)
	assert.Equal(t, before.Payments.Failed+1, after.Payments.Failed)
}

func TestAggregatorTotals(t *testing.T) {
	ctx := context.Background()
	a := analytics.New(rdb)

	before, err := a.Total(ctx)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, a.RecordBookingCreated(ctx, entity.BookingTypeCar, now))
	require.NoError(t, a.RecordPaymentSucceeded(ctx, 42.00, now))

	after, err := a.Total(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.Bookings+1, after.Bookings)
	assert.InDelta(t, before.Revenue+42.00, after.Revenue, 0.001)
	assert.Equal(t, before.PaymentsSucceeded+1, after.PaymentsSucceeded)
}

func TestAggregatorRange(t *testing.T) {
	ctx := context.Background()
	a := analytics.New(rdb)

	require.NoError(t, a.RecordBookingCreated(ctx, entity.BookingTypeFlight, time.Now()))

	stats, err := a.Range(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 7)

	// Most recent day first.
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), stats[0].Date)
	assert.GreaterOrEqual(t, stats[0].Bookings, int64(1))
}

// Replaying the same payment event through the dedup guard must move the
// revenue counter exactly once, regardless of how many times the channel
// redelivers it.
func TestAggregatorExactlyOnceUnderRedelivery(t *testing.T) {
	ctx := context.Background()
	a := analytics.New(rdb)
	d := dedup.New(rdb, "test:analytics:"+uuid.NewString(), time.Minute)

	before, err := a.Today(ctx)
	require.NoError(t, err)

	paymentID := uuid.NewString()
	now := time.Now()
	for i := 0; i < 5; i++ {
		if d.IsProcessed(ctx, paymentID) {
			continue
		}
		require.NoError(t, a.RecordPaymentSucceeded(ctx, 199.99, now))
		d.MarkProcessed(ctx, paymentID)
	}

	after, err := a.Today(ctx)
	require.NoError(t, err)
	assert.InDelta(t, before.Revenue+199.99, after.Revenue, 0.001)
	assert.Equal(t, before.Payments.Succeeded+1, after.Payments.Succeeded)
}
