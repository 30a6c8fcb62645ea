package entity

import "time"

const (
	BookingTypeFlight = "flight"
	BookingTypeHotel  = "hotel"
	BookingTypeCar    = "car"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

func ValidBookingType(t string) bool {
	return t == BookingTypeFlight || t == BookingTypeHotel || t == BookingTypeCar
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled || s == StatusCompleted
}

type Booking struct {
	BookingID        string    `json:"booking_id" db:"booking_id"`
	UserID           string    `json:"user_id" db:"user_id"`
	BookingType      string    `json:"booking_type" db:"booking_type"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	RoomType         string    `json:"room_type,omitempty" db:"room_type"`
	ConfirmationCode string    `json:"confirmation_code" db:"confirmation_code"`
	Status           string    `json:"status" db:"status"`
	StartDate        time.Time `json:"start_date" db:"start_date"`
	EndDate          time.Time `json:"end_date" db:"end_date"`
	Guests           int       `json:"guests" db:"guests"`
	TotalAmount      float64   `json:"total_amount" db:"total_amount"`
	SpecialRequests  string    `json:"special_requests,omitempty" db:"special_requests"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
