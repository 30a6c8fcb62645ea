package http

import (
	"errors"
	"net/http"
	"travel/booking"
	"travel/db"

	"github.com/labstack/echo/v4"
)

// httpError maps the coordinator's error taxonomy onto status codes.
// Validation and business-rule errors carry their actionable message;
// infrastructure faults return a generic failure without leaking internals.
func httpError(err error) error {
	var validationErr booking.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
	}

	var insufficientErr booking.InsufficientInventoryError
	if errors.As(err, &insufficientErr) {
		return echo.NewHTTPError(http.StatusConflict, insufficientErr.Error())
	}

	var entityNotFoundErr booking.EntityNotFoundError
	if errors.As(err, &entityNotFoundErr) {
		return echo.NewHTTPError(http.StatusNotFound, entityNotFoundErr.Error())
	}

	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, db.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, booking.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, booking.ErrPermissionDenied.Error())
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return echo.NewHTTPError(http.StatusConflict, booking.ErrAlreadyCancelled.Error())
	case errors.Is(err, booking.ErrPastCheckIn):
		return echo.NewHTTPError(http.StatusConflict, booking.ErrPastCheckIn.Error())
	}

	return &echo.HTTPError{
		Code:     http.StatusInternalServerError,
		Message:  http.StatusText(http.StatusInternalServerError),
		Internal: err,
	}
}
