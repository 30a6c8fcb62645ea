package message

import (
	"context"
	"errors"
	"testing"
	"time"
	"travel/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDedup struct {
	processed map[string]bool
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{processed: map[string]bool{}}
}

func (d *fakeDedup) IsProcessed(_ context.Context, messageID string) bool {
	return d.processed[messageID]
}

func (d *fakeDedup) MarkProcessed(_ context.Context, messageID string) {
	d.processed[messageID] = true
}

type recordingAggregator struct {
	bookingsCreated []string
	statuses        []string
	amounts         []float64
	failures        int
	err             error
}

func (a *recordingAggregator) RecordBookingCreated(_ context.Context, bookingType string, _ time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.bookingsCreated = append(a.bookingsCreated, bookingType)
	return nil
}

func (a *recordingAggregator) RecordBookingStatus(_ context.Context, status string, _ time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.statuses = append(a.statuses, status)
	return nil
}

func (a *recordingAggregator) RecordPaymentSucceeded(_ context.Context, amount float64, _ time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.amounts = append(a.amounts, amount)
	return nil
}

func (a *recordingAggregator) RecordPaymentFailed(_ context.Context, _ time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.failures++
	return nil
}

func TestHandleBookingCreatedAppliesOnce(t *testing.T) {
	ctx := context.Background()
	d := newFakeDedup()
	a := &recordingAggregator{}
	handle := handleBookingCreated(d, a)

	e := &event.BookingCreated{
		Header:      event.NewHeader(),
		BookingID:   "b-1",
		BookingType: "flight",
	}

	// The channel is at-least-once: the same event arrives three times, the
	// counter moves once.
	for i := 0; i < 3; i++ {
		require.NoError(t, handle(ctx, e))
	}

	assert.Equal(t, []string{"flight"}, a.bookingsCreated)
	assert.True(t, d.processed["b-1"])
}

func TestHandleBookingCreatedDoesNotMarkOnFailure(t *testing.T) {
	ctx := context.Background()
	d := newFakeDedup()
	a := &recordingAggregator{err: errors.New("store unavailable")}
	handle := handleBookingCreated(d, a)

	e := &event.BookingCreated{
		Header:      event.NewHeader(),
		BookingID:   "b-1",
		BookingType: "flight",
	}

	// Failures are swallowed so the loop advances, but the marker is not set:
	// a redelivery gets another chance at the increment.
	require.NoError(t, handle(ctx, e))
	assert.False(t, d.processed["b-1"])

	a.err = nil
	require.NoError(t, handle(ctx, e))
	assert.Equal(t, []string{"flight"}, a.bookingsCreated)
	assert.True(t, d.processed["b-1"])
}

func TestHandleBookingUpdatedDedupsByMessageID(t *testing.T) {
	ctx := context.Background()
	d := newFakeDedup()
	a := &recordingAggregator{}
	handle := handleBookingUpdated(d, a)

	// Two distinct updates to the same booking must both count; only a
	// redelivery of the same message is skipped.
	first := &event.BookingUpdated{Header: event.NewHeader(), BookingID: "b-1", Status: "cancelled"}
	second := &event.BookingUpdated{Header: event.NewHeader(), BookingID: "b-1", Status: "completed"}

	require.NoError(t, handle(ctx, first))
	require.NoError(t, handle(ctx, first))
	require.NoError(t, handle(ctx, second))

	assert.Equal(t, []string{"cancelled", "completed"}, a.statuses)
}

func TestHandlePaymentSucceededRecordsRefunds(t *testing.T) {
	ctx := context.Background()
	d := newFakeDedup()
	a := &recordingAggregator{}
	handle := handlePaymentSucceeded(d, a)

	charge := &event.PaymentSucceeded{Header: event.NewHeader(), PaymentID: "p-1", Amount: 199.99}
	refund := &event.PaymentSucceeded{Header: event.NewHeader(), PaymentID: "p-2", Amount: -99.99}

	require.NoError(t, handle(ctx, charge))
	require.NoError(t, handle(ctx, refund))
	require.NoError(t, handle(ctx, charge))

	assert.Equal(t, []float64{199.99, -99.99}, a.amounts)
}

func TestHandlePaymentFailed(t *testing.T) {
	ctx := context.Background()
	d := newFakeDedup()
	a := &recordingAggregator{}
	handle := handlePaymentFailed(d, a)

	e := &event.PaymentFailed{Header: event.NewHeader(), BookingID: "b-1", Reason: "card declined"}

	require.NoError(t, handle(ctx, e))
	require.NoError(t, handle(ctx, e))

	assert.Equal(t, 1, a.failures)
}
