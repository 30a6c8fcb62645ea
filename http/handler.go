package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"travel/analytics"
	"travel/booking"
	"travel/db"
	"travel/entity"

	"github.com/labstack/echo/v4"
)

type BookingService interface {
	CreateBookingWithPayment(ctx context.Context, principal entity.Principal, req booking.CreateBookingRequest) (entity.Booking, entity.Payment, error)
	CancelBooking(ctx context.Context, principal entity.Principal, bookingID, reason string) (booking.CancelResult, error)
	GetBooking(ctx context.Context, principal entity.Principal, bookingID string) (entity.Booking, error)
	GetBookingPayments(ctx context.Context, principal entity.Principal, bookingID string) ([]entity.Payment, error)
	GetUserBookings(ctx context.Context, principal entity.Principal, userID string, filter db.BookingFilter) ([]entity.Booking, error)
	GetUserPayments(ctx context.Context, principal entity.Principal, userID string) ([]entity.Payment, error)
	ListBookings(ctx context.Context, principal entity.Principal, limit int) ([]entity.Booking, error)
	UpdateStatus(ctx context.Context, principal entity.Principal, bookingID, status string) (entity.Booking, error)
}

type AnalyticsReader interface {
	Today(ctx context.Context) (analytics.Stats, error)
	Total(ctx context.Context) (analytics.Totals, error)
	Range(ctx context.Context, days int) ([]analytics.DayStats, error)
}

type FlightRepo interface {
	Add(ctx context.Context, flight entity.Flight) error
	Get(ctx context.Context, flightID string) (entity.Flight, error)
	Search(ctx context.Context, origin, destination string) ([]entity.Flight, error)
}

type HotelRepo interface {
	Add(ctx context.Context, room entity.HotelRoom) error
	Get(ctx context.Context, hotelID, roomType string) (entity.HotelRoom, error)
	ListRooms(ctx context.Context, hotelID string) ([]entity.HotelRoom, error)
}

type CarRepo interface {
	Add(ctx context.Context, car entity.Car) error
	Get(ctx context.Context, carID string) (entity.Car, error)
	Search(ctx context.Context, location string) ([]entity.Car, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
	DelPattern(ctx context.Context, pattern string)
}

type handler struct {
	analytics  AnalyticsReader
	bookings   BookingService
	cache      Cache
	cars       CarRepo
	flights    FlightRepo
	hotels     HotelRepo
	listingTTL time.Duration
	searchTTL  time.Duration
}

type createBookingRequest struct {
	BookingType     string                `json:"booking_type"`
	EntityID        string                `json:"entity_id"`
	RoomType        string                `json:"room_type"`
	Quantity        int                   `json:"quantity"`
	StartDate       time.Time             `json:"start_date"`
	EndDate         time.Time             `json:"end_date"`
	Guests          int                   `json:"guests"`
	TotalAmount     float64               `json:"total_amount"`
	Currency        string                `json:"currency"`
	PaymentMethod   string                `json:"payment_method"`
	PaymentDetails  entity.PaymentDetails `json:"payment_details"`
	SpecialRequests string                `json:"special_requests"`
}

func (h handler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}

	b, p, err := h.bookings.CreateBookingWithPayment(c.Request().Context(), principalFrom(c), booking.CreateBookingRequest{
		BookingType:     req.BookingType,
		EntityID:        req.EntityID,
		RoomType:        req.RoomType,
		Quantity:        req.Quantity,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Guests:          req.Guests,
		TotalAmount:     req.TotalAmount,
		Currency:        req.Currency,
		PaymentMethod:   req.PaymentMethod,
		PaymentDetails:  req.PaymentDetails,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"booking": b,
		"payment": p,
		"message": fmt.Sprintf("Booking %s created successfully. Payment confirmed.", b.ConfirmationCode),
	})
}

func (h handler) CancelBooking(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}

	result, err := h.bookings.CancelBooking(c.Request().Context(), principalFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h handler) GetBooking(c echo.Context) error {
	b, err := h.bookings.GetBooking(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, b)
}

func (h handler) GetBookingPayments(c echo.Context) error {
	payments, err := h.bookings.GetBookingPayments(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"booking_id": c.Param("id"),
		"count":      len(payments),
		"payments":   payments,
	})
}

func (h handler) GetUserBookings(c echo.Context) error {
	filter := db.BookingFilter{
		Time:        c.QueryParam("filter"),
		BookingType: c.QueryParam("type"),
	}

	bookings, err := h.bookings.GetUserBookings(c.Request().Context(), principalFrom(c), c.Param("id"), filter)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id":  c.Param("id"),
		"count":    len(bookings),
		"bookings": bookings,
	})
}

func (h handler) GetUserPayments(c echo.Context) error {
	payments, err := h.bookings.GetUserPayments(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id":  c.Param("id"),
		"count":    len(payments),
		"payments": payments,
	})
}

func (h handler) ListBookings(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	bookings, err := h.bookings.ListBookings(c.Request().Context(), principalFrom(c), limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"count":    len(bookings),
		"bookings": bookings,
	})
}

func (h handler) UpdateBookingStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	b, err := h.bookings.UpdateStatus(c.Request().Context(), principalFrom(c), c.Param("id"), req.Status)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Booking status updated successfully",
		"booking": b,
	})
}

func (h handler) TodayAnalytics(c echo.Context) error {
	stats, err := h.analytics.Today(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

func (h handler) TotalAnalytics(c echo.Context) error {
	totals, err := h.analytics.Total(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, totals)
}

func (h handler) RangeAnalytics(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 90 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 90")
		}
		days = parsed
	}

	stats, err := h.analytics.Range(c.Request().Context(), days)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"days": days,
		"data": stats,
	})
}

func (h handler) CreateFlight(c echo.Context) error {
	var flight entity.Flight
	if err := c.Bind(&flight); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}

	if err := h.flights.Add(c.Request().Context(), flight); err != nil {
		return httpError(err)
	}

	h.cache.Del(c.Request().Context(), "flights:"+flight.FlightID)
	h.cache.DelPattern(c.Request().Context(), "flights:search:*")

	return c.JSON(http.StatusCreated, flight)
}

// GetFlight reads through the cache: hit serves the cached copy, miss falls
// back to the store and populates the cache.
func (h handler) GetFlight(c echo.Context) error {
	ctx := c.Request().Context()
	key := "flights:" + c.Param("id")

	var flight entity.Flight
	if h.cache.Get(ctx, key, &flight) {
		return c.JSON(http.StatusOK, flight)
	}

	flight, err := h.flights.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	h.cache.Set(ctx, key, flight, h.listingTTL)

	return c.JSON(http.StatusOK, flight)
}

// SearchFlights caches whole result sets per route. Bookings and listing
// writes invalidate the flights:search:* family, so a stale window is bounded
// by the search TTL only between invalidations.
func (h handler) SearchFlights(c echo.Context) error {
	ctx := c.Request().Context()
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	key := "flights:search:" + origin + ":" + destination

	var flights []entity.Flight
	if !h.cache.Get(ctx, key, &flights) {
		var err error
		flights, err = h.flights.Search(ctx, origin, destination)
		if err != nil {
			return httpError(err)
		}
		h.cache.Set(ctx, key, flights, h.searchTTL)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"count":   len(flights),
		"flights": flights,
	})
}

func (h handler) CreateHotelRoom(c echo.Context) error {
	var room entity.HotelRoom
	if err := c.Bind(&room); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}

	if err := h.hotels.Add(c.Request().Context(), room); err != nil {
		return httpError(err)
	}

	h.cache.Del(c.Request().Context(), "hotels:"+room.HotelID+":"+room.RoomType)
	h.cache.DelPattern(c.Request().Context(), "hotels:search:*")

	return c.JSON(http.StatusCreated, room)
}

func (h handler) GetHotelRoom(c echo.Context) error {
	ctx := c.Request().Context()
	key := "hotels:" + c.Param("id") + ":" + c.Param("type")

	var room entity.HotelRoom
	if h.cache.Get(ctx, key, &room) {
		return c.JSON(http.StatusOK, room)
	}

	room, err := h.hotels.Get(ctx, c.Param("id"), c.Param("type"))
	if err != nil {
		return httpError(err)
	}
	h.cache.Set(ctx, key, room, h.listingTTL)

	return c.JSON(http.StatusOK, room)
}

func (h handler) ListHotelRooms(c echo.Context) error {
	ctx := c.Request().Context()
	hotelID := c.Param("id")
	key := "hotels:search:" + hotelID

	var rooms []entity.HotelRoom
	if !h.cache.Get(ctx, key, &rooms) {
		var err error
		rooms, err = h.hotels.ListRooms(ctx, hotelID)
		if err != nil {
			return httpError(err)
		}
		h.cache.Set(ctx, key, rooms, h.searchTTL)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"hotel_id": hotelID,
		"count":    len(rooms),
		"rooms":    rooms,
	})
}

func (h handler) CreateCar(c echo.Context) error {
	var car entity.Car
	if err := c.Bind(&car); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse request")
	}

	if err := h.cars.Add(c.Request().Context(), car); err != nil {
		return httpError(err)
	}

	h.cache.Del(c.Request().Context(), "cars:"+car.CarID)
	h.cache.DelPattern(c.Request().Context(), "cars:search:*")

	return c.JSON(http.StatusCreated, car)
}

func (h handler) SearchCars(c echo.Context) error {
	ctx := c.Request().Context()
	location := c.QueryParam("location")
	key := "cars:search:" + location

	var cars []entity.Car
	if !h.cache.Get(ctx, key, &cars) {
		var err error
		cars, err = h.cars.Search(ctx, location)
		if err != nil {
			return httpError(err)
		}
		h.cache.Set(ctx, key, cars, h.searchTTL)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"count": len(cars),
		"cars":  cars,
	})
}

func (h handler) GetCar(c echo.Context) error {
	ctx := c.Request().Context()
	key := "cars:" + c.Param("id")

	var car entity.Car
	if h.cache.Get(ctx, key, &car) {
		return c.JSON(http.StatusOK, car)
	}

	car, err := h.cars.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	h.cache.Set(ctx, key, car, h.listingTTL)

	return c.JSON(http.StatusOK, car)
}
