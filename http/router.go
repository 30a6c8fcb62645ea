package http

import (
	"net/http"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
)

var ErrServerClosed = http.ErrServerClosed

type RouterDeps struct {
	Analytics  AnalyticsReader
	Bookings   BookingService
	Cache      Cache
	Cars       CarRepo
	Flights    FlightRepo
	Hotels     HotelRepo
	ListingTTL time.Duration
	SearchTTL  time.Duration
	Verifier   TokenVerifier
}

func NewRouter(deps RouterDeps) *echo.Echo {
	server := commonHTTP.NewEcho()

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	handler := handler{
		analytics:  deps.Analytics,
		bookings:   deps.Bookings,
		cache:      deps.Cache,
		cars:       deps.Cars,
		flights:    deps.Flights,
		hotels:     deps.Hotels,
		listingTTL: deps.ListingTTL,
		searchTTL:  deps.SearchTTL,
	}

	authed := server.Group("", authMiddleware(deps.Verifier))

	authed.POST("/bookings", handler.CreateBooking)
	authed.GET("/bookings/:id", handler.GetBooking)
	authed.POST("/bookings/:id/cancel", handler.CancelBooking)
	authed.GET("/bookings/:id/payments", handler.GetBookingPayments)
	authed.GET("/users/:id/bookings", handler.GetUserBookings)
	authed.GET("/users/:id/payments", handler.GetUserPayments)

	authed.GET("/flights", handler.SearchFlights)
	authed.GET("/flights/:id", handler.GetFlight)
	authed.GET("/hotels/:id/rooms", handler.ListHotelRooms)
	authed.GET("/hotels/:id/rooms/:type", handler.GetHotelRoom)
	authed.GET("/cars", handler.SearchCars)
	authed.GET("/cars/:id", handler.GetCar)

	admin := server.Group("/admin", authMiddleware(deps.Verifier), requireAdmin)

	admin.GET("/bookings", handler.ListBookings)
	admin.PUT("/bookings/:id/status", handler.UpdateBookingStatus)

	admin.GET("/analytics/today", handler.TodayAnalytics)
	admin.GET("/analytics/total", handler.TotalAnalytics)
	admin.GET("/analytics/range", handler.RangeAnalytics)

	admin.POST("/flights", handler.CreateFlight)
	admin.POST("/hotels/rooms", handler.CreateHotelRoom)
	admin.POST("/cars", handler.CreateCar)

	return server
}
