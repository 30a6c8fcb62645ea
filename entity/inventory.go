package entity

import "time"

type Flight struct {
	FlightID         string    `json:"flight_id" db:"flight_id"`
	Airline          string    `json:"airline" db:"airline"`
	Origin           string    `json:"origin" db:"origin"`
	Destination      string    `json:"destination" db:"destination"`
	DepartureTime    time.Time `json:"departure_time" db:"departure_time"`
	Price            float64   `json:"price" db:"price"`
	TotalSeats       int       `json:"total_seats" db:"total_seats"`
	AvailableSeats   int       `json:"available_seats" db:"available_seats"`
}

type HotelRoom struct {
	HotelID        string  `json:"hotel_id" db:"hotel_id"`
	RoomType       string  `json:"room_type" db:"room_type"`
	PricePerNight  float64 `json:"price_per_night" db:"price_per_night"`
	TotalRooms     int     `json:"total_rooms" db:"total_rooms"`
	AvailableRooms int     `json:"available_rooms" db:"available_rooms"`
}

type Car struct {
	CarID     string  `json:"car_id" db:"car_id"`
	Model     string  `json:"model" db:"model"`
	Location  string  `json:"location" db:"location"`
	DailyRate float64 `json:"daily_rate" db:"daily_rate"`
	Available bool    `json:"available" db:"available"`
}
