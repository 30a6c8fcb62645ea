package event

import (
	"time"
	"travel/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

// Topic names double as event names on the wire. One topic per event kind,
// partition-ordered, at-least-once delivery.
const (
	TopicBookingCreated   = "booking_created"
	TopicBookingUpdated   = "booking_updated"
	TopicPaymentSucceeded = "payment_succeeded"
	TopicPaymentFailed    = "payment_failed"
)

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewHeader() Header {
	return Header{
		ID:          watermill.NewUUID(),
		PublishedAt: time.Now().UTC(),
	}
}

// Marshaler names events by their topic so publish and subscribe agree without
// a separate mapping table.
func Marshaler() cqrs.JSONMarshaler {
	return cqrs.JSONMarshaler{
		GenerateName: func(v interface{}) string {
			if n, ok := v.(interface{ EventName() string }); ok {
				return n.EventName()
			}
			return cqrs.StructName(v)
		},
	}
}

type BookingCreated struct {
	Header           Header    `json:"header"`
	BookingID        string    `json:"booking_id"`
	UserID           string    `json:"user_id"`
	BookingType      string    `json:"booking_type"`
	ConfirmationCode string    `json:"confirmation_code"`
	TotalAmount      float64   `json:"total_amount"`
	StartDate        time.Time `json:"start_date"`
}

func (e BookingCreated) EventName() string {
	return TopicBookingCreated
}

func NewBookingCreated(b entity.Booking) BookingCreated {
	return BookingCreated{
		Header:           NewHeader(),
		BookingID:        b.BookingID,
		UserID:           b.UserID,
		BookingType:      b.BookingType,
		ConfirmationCode: b.ConfirmationCode,
		TotalAmount:      b.TotalAmount,
		StartDate:        b.StartDate,
	}
}

type BookingUpdated struct {
	Header      Header `json:"header"`
	BookingID   string `json:"booking_id"`
	BookingType string `json:"booking_type"`
	Status      string `json:"status"`
}

func (e BookingUpdated) EventName() string {
	return TopicBookingUpdated
}

func NewBookingUpdated(b entity.Booking, status string) BookingUpdated {
	return BookingUpdated{
		Header:      NewHeader(),
		BookingID:   b.BookingID,
		BookingType: b.BookingType,
		Status:      status,
	}
}

type PaymentSucceeded struct {
	Header      Header  `json:"header"`
	PaymentID   string  `json:"payment_id"`
	BookingID   string  `json:"booking_id"`
	BookingType string  `json:"booking_type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

func (e PaymentSucceeded) EventName() string {
	return TopicPaymentSucceeded
}

func NewPaymentSucceeded(p entity.Payment) PaymentSucceeded {
	return PaymentSucceeded{
		Header:      NewHeader(),
		PaymentID:   p.PaymentID,
		BookingID:   p.BookingID,
		BookingType: p.BookingType,
		Amount:      p.Amount,
		Currency:    p.Currency,
	}
}

type PaymentFailed struct {
	Header      Header  `json:"header"`
	BookingID   string  `json:"booking_id"`
	BookingType string  `json:"booking_type"`
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason"`
}

func (e PaymentFailed) EventName() string {
	return TopicPaymentFailed
}

func NewPaymentFailed(bookingID, bookingType string, amount float64, reason string) PaymentFailed {
	return PaymentFailed{
		Header:      NewHeader(),
		BookingID:   bookingID,
		BookingType: bookingType,
		Amount:      amount,
		Reason:      reason,
	}
}
