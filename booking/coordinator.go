package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"travel/db"
	"travel/entity"
	"travel/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	codeAttempts    = 5
	defaultRoomType = "Standard"
	defaultCurrency = "USD"
)

type FlightStore interface {
	ReserveSeats(ctx context.Context, tx *sqlx.Tx, flightID string, quantity int) error
}

type HotelStore interface {
	ReserveRooms(ctx context.Context, tx *sqlx.Tx, hotelID, roomType string, quantity int) error
}

type CarStore interface {
	ReserveCar(ctx context.Context, tx *sqlx.Tx, carID string) error
}

type BookingStore interface {
	Insert(ctx context.Context, tx *sqlx.Tx, b entity.Booking) error
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, bookingID, status string) error
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, bookingID string) (entity.Booking, error)
	Get(ctx context.Context, bookingID string) (entity.Booking, error)
	CodeExists(ctx context.Context, tx *sqlx.Tx, code string) (bool, error)
	GetByUser(ctx context.Context, userID string, filter db.BookingFilter) ([]entity.Booking, error)
	List(ctx context.Context, limit int) ([]entity.Booking, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, tx *sqlx.Tx, p entity.Payment) error
	GetByBooking(ctx context.Context, bookingID string) ([]entity.Payment, error)
	GetByUser(ctx context.Context, userID string) ([]entity.Payment, error)
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type CacheInvalidator interface {
	Del(ctx context.Context, keys ...string)
	DelPattern(ctx context.Context, pattern string)
}

type Deps struct {
	DB        *sqlx.DB
	Flights   FlightStore
	Hotels    HotelStore
	Cars      CarStore
	Bookings  BookingStore
	Payments  PaymentStore
	Publisher Publisher
	Cache     CacheInvalidator
}

// Coordinator runs booking and payment state changes as single atomic units of
// work over the relational store. Event publication and cache invalidation
// happen after commit and are best-effort: the committed transaction is the
// source of truth.
type Coordinator struct {
	db        *sqlx.DB
	flights   FlightStore
	hotels    HotelStore
	cars      CarStore
	bookings  BookingStore
	payments  PaymentStore
	publisher Publisher
	cache     CacheInvalidator
}

func New(deps Deps) *Coordinator {
	return &Coordinator{
		db:        deps.DB,
		flights:   deps.Flights,
		hotels:    deps.Hotels,
		cars:      deps.Cars,
		bookings:  deps.Bookings,
		payments:  deps.Payments,
		publisher: deps.Publisher,
		cache:     deps.Cache,
	}
}

type CreateBookingRequest struct {
	BookingType     string
	EntityID        string
	RoomType        string
	Quantity        int
	StartDate       time.Time
	EndDate         time.Time
	Guests          int
	TotalAmount     float64
	Currency        string
	PaymentMethod   string
	PaymentDetails  entity.PaymentDetails
	SpecialRequests string
}

// CreateBookingWithPayment reserves inventory, creates the booking and
// captures payment in one transaction. On any failure the whole unit of work
// rolls back; partial state is never observable.
func (c *Coordinator) CreateBookingWithPayment(ctx context.Context, principal entity.Principal, req CreateBookingRequest) (entity.Booking, entity.Payment, error) {
	if err := validateCreateRequest(req); err != nil {
		return entity.Booking{}, entity.Payment{}, err
	}

	if req.BookingType == entity.BookingTypeHotel && req.RoomType == "" {
		req.RoomType = defaultRoomType
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Booking{}, entity.Payment{}, TransactionFailedError{Err: err}
	}
	defer tx.Rollback()

	if err := c.reserveInventory(ctx, tx, req); err != nil {
		return entity.Booking{}, entity.Payment{}, err
	}

	code, err := c.uniqueConfirmationCode(ctx, tx, req.BookingType)
	if err != nil {
		return entity.Booking{}, entity.Payment{}, c.failPayment(ctx, "", req, err)
	}

	booking := entity.Booking{
		BookingID:        uuid.NewString(),
		UserID:           principal.UserID,
		BookingType:      req.BookingType,
		BookingReference: req.EntityID,
		RoomType:         req.RoomType,
		ConfirmationCode: code,
		Status:           entity.StatusPending,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Guests:           req.Guests,
		TotalAmount:      req.TotalAmount,
		SpecialRequests:  req.SpecialRequests,
	}
	if err := c.bookings.Insert(ctx, tx, booking); err != nil {
		return entity.Booking{}, entity.Payment{}, c.failPayment(ctx, booking.BookingID, req, fmt.Errorf("inserting booking: %w", err))
	}

	payment := entity.Payment{
		PaymentID:      uuid.NewString(),
		UserID:         principal.UserID,
		BookingID:      booking.BookingID,
		BookingType:    req.BookingType,
		Amount:         req.TotalAmount,
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		Status:         entity.PaymentStatusCompleted,
		TransactionRef: fmt.Sprintf("TXN%d", time.Now().UnixMilli()),
		Details:        receiptDetails(code, req),
	}
	if err := c.payments.Insert(ctx, tx, payment); err != nil {
		return entity.Booking{}, entity.Payment{}, c.failPayment(ctx, booking.BookingID, req, fmt.Errorf("inserting payment: %w", err))
	}

	if err := c.bookings.UpdateStatus(ctx, tx, booking.BookingID, entity.StatusConfirmed); err != nil {
		return entity.Booking{}, entity.Payment{}, c.failPayment(ctx, booking.BookingID, req, fmt.Errorf("confirming booking: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return entity.Booking{}, entity.Payment{}, c.failPayment(ctx, booking.BookingID, req, fmt.Errorf("committing: %w", err))
	}
	booking.Status = entity.StatusConfirmed

	c.publish(ctx, event.NewBookingCreated(booking))
	c.publish(ctx, event.NewPaymentSucceeded(payment))
	c.invalidateInventory(ctx, req.BookingType, req.EntityID)

	return booking, payment, nil
}

func (c *Coordinator) reserveInventory(ctx context.Context, tx *sqlx.Tx, req CreateBookingRequest) error {
	var err error
	switch req.BookingType {
	case entity.BookingTypeFlight:
		err = c.flights.ReserveSeats(ctx, tx, req.EntityID, req.Quantity)
	case entity.BookingTypeHotel:
		err = c.hotels.ReserveRooms(ctx, tx, req.EntityID, req.RoomType, req.Quantity)
	case entity.BookingTypeCar:
		err = c.cars.ReserveCar(ctx, tx, req.EntityID)
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, db.ErrNotFound) {
		return EntityNotFoundError{Kind: req.BookingType, ID: req.EntityID}
	}

	var insufficient db.InsufficientError
	if errors.As(err, &insufficient) {
		return InsufficientInventoryError{
			Resource:  insufficient.Resource,
			Requested: insufficient.Requested,
			Available: insufficient.Available,
		}
	}

	return TransactionFailedError{Err: err}
}

func (c *Coordinator) uniqueConfirmationCode(ctx context.Context, tx *sqlx.Tx, bookingType string) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := newConfirmationCode(bookingType)

		exists, err := c.bookings.CodeExists(ctx, tx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("no unique confirmation code after %d attempts", codeAttempts)
}

// failPayment wraps a post-validation fault and emits payment_failed
// best-effort. The deferred rollback discards the whole unit of work, so the
// failure leaves no trace in the store.
func (c *Coordinator) failPayment(ctx context.Context, bookingID string, req CreateBookingRequest, err error) error {
	c.publish(ctx, event.NewPaymentFailed(bookingID, req.BookingType, req.TotalAmount, err.Error()))
	return TransactionFailedError{Err: err}
}

type CancelResult struct {
	Message      string  `json:"message"`
	RefundAmount float64 `json:"refund_amount"`
}

// CancelBooking applies the time-based refund policy: more than 24 hours
// before the start date refunds 100%, within 24 hours refunds 50%, after the
// start date cancellation is rejected. The refund is a new negative payment
// row. Reserved inventory is not returned to the pool on cancellation.
func (c *Coordinator) CancelBooking(ctx context.Context, principal entity.Principal, bookingID, reason string) (CancelResult, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return CancelResult{}, TransactionFailedError{Err: err}
	}
	defer tx.Rollback()

	b, err := c.bookings.GetForUpdate(ctx, tx, bookingID)
	if errors.Is(err, db.ErrNotFound) {
		return CancelResult{}, ErrNotFound
	}
	if err != nil {
		return CancelResult{}, TransactionFailedError{Err: err}
	}

	if b.UserID != principal.UserID {
		return CancelResult{}, ErrPermissionDenied
	}
	if b.Status == entity.StatusCancelled {
		return CancelResult{}, ErrAlreadyCancelled
	}

	hoursUntilStart := time.Until(b.StartDate).Hours()

	var refundPercentage float64
	switch {
	case hoursUntilStart > 24:
		refundPercentage = 1.0
	case hoursUntilStart > 0:
		refundPercentage = 0.5
	default:
		return CancelResult{}, ErrPastCheckIn
	}
	refundAmount := b.TotalAmount * refundPercentage

	if err := c.bookings.UpdateStatus(ctx, tx, bookingID, entity.StatusCancelled); err != nil {
		return CancelResult{}, TransactionFailedError{Err: err}
	}

	if reason == "" {
		reason = "Booking cancelled by user"
	}
	refund := entity.Payment{
		PaymentID:      uuid.NewString(),
		UserID:         b.UserID,
		BookingID:      b.BookingID,
		BookingType:    b.BookingType,
		Amount:         -refundAmount,
		Currency:       defaultCurrency,
		PaymentMethod:  entity.PaymentMethodRefund,
		Status:         entity.PaymentStatusCompleted,
		TransactionRef: fmt.Sprintf("REFUND%d", time.Now().UnixMilli()),
		Details:        refundDetails(reason, b.TotalAmount, refundPercentage),
	}
	if err := c.payments.Insert(ctx, tx, refund); err != nil {
		return CancelResult{}, TransactionFailedError{Err: fmt.Errorf("inserting refund: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return CancelResult{}, TransactionFailedError{Err: err}
	}

	c.publish(ctx, event.NewBookingUpdated(b, entity.StatusCancelled))
	c.publish(ctx, event.NewPaymentSucceeded(refund))

	return CancelResult{
		Message:      fmt.Sprintf("Booking %s cancelled successfully", bookingID),
		RefundAmount: refundAmount,
	}, nil
}

func (c *Coordinator) GetBooking(ctx context.Context, principal entity.Principal, bookingID string) (entity.Booking, error) {
	b, err := c.bookings.Get(ctx, bookingID)
	if errors.Is(err, db.ErrNotFound) {
		return entity.Booking{}, ErrNotFound
	}
	if err != nil {
		return entity.Booking{}, err
	}

	if b.UserID != principal.UserID && !principal.IsAdmin {
		return entity.Booking{}, ErrPermissionDenied
	}

	return b, nil
}

func (c *Coordinator) GetUserBookings(ctx context.Context, principal entity.Principal, userID string, filter db.BookingFilter) ([]entity.Booking, error) {
	if userID != principal.UserID && !principal.IsAdmin {
		return nil, ErrPermissionDenied
	}

	return c.bookings.GetByUser(ctx, userID, filter)
}

// GetBookingPayments returns the charge and any refund rows for one booking.
func (c *Coordinator) GetBookingPayments(ctx context.Context, principal entity.Principal, bookingID string) ([]entity.Payment, error) {
	b, err := c.bookings.Get(ctx, bookingID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if b.UserID != principal.UserID && !principal.IsAdmin {
		return nil, ErrPermissionDenied
	}

	return c.payments.GetByBooking(ctx, bookingID)
}

func (c *Coordinator) GetUserPayments(ctx context.Context, principal entity.Principal, userID string) ([]entity.Payment, error) {
	if userID != principal.UserID && !principal.IsAdmin {
		return nil, ErrPermissionDenied
	}

	return c.payments.GetByUser(ctx, userID)
}

func (c *Coordinator) ListBookings(ctx context.Context, principal entity.Principal, limit int) ([]entity.Booking, error) {
	if !principal.IsAdmin {
		return nil, ErrPermissionDenied
	}
	if limit < 1 || limit > 1000 {
		return nil, validationErrorf("limit must be between 1 and 1000")
	}

	return c.bookings.List(ctx, limit)
}

// UpdateStatus is the admin override for booking status transitions.
func (c *Coordinator) UpdateStatus(ctx context.Context, principal entity.Principal, bookingID, status string) (entity.Booking, error) {
	if !principal.IsAdmin {
		return entity.Booking{}, ErrPermissionDenied
	}
	if !entity.ValidStatus(status) {
		return entity.Booking{}, validationErrorf("invalid status: %q", status)
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Booking{}, TransactionFailedError{Err: err}
	}
	defer tx.Rollback()

	b, err := c.bookings.GetForUpdate(ctx, tx, bookingID)
	if errors.Is(err, db.ErrNotFound) {
		return entity.Booking{}, ErrNotFound
	}
	if err != nil {
		return entity.Booking{}, TransactionFailedError{Err: err}
	}

	if err := c.bookings.UpdateStatus(ctx, tx, bookingID, status); err != nil {
		return entity.Booking{}, TransactionFailedError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return entity.Booking{}, TransactionFailedError{Err: err}
	}
	b.Status = status

	c.publish(ctx, event.NewBookingUpdated(b, status))

	return b, nil
}

// publish is fire-and-forget: the state change is already durable, so a
// publisher fault is logged and the caller still gets a successful result.
func (c *Coordinator) publish(ctx context.Context, e any) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, e); err != nil {
		log.FromContext(ctx).WithError(err).Error("Failed to publish event")
	}
}

func (c *Coordinator) invalidateInventory(ctx context.Context, bookingType, entityID string) {
	if c.cache == nil {
		return
	}
	switch bookingType {
	case entity.BookingTypeFlight:
		c.cache.Del(ctx, "flights:"+entityID)
		c.cache.DelPattern(ctx, "flights:search:*")
	case entity.BookingTypeHotel:
		// Room listings are keyed hotels:<id>:<roomType>.
		c.cache.DelPattern(ctx, "hotels:"+entityID+":*")
		c.cache.DelPattern(ctx, "hotels:search:*")
	case entity.BookingTypeCar:
		c.cache.Del(ctx, "cars:"+entityID)
		c.cache.DelPattern(ctx, "cars:search:*")
	}
}

func receiptDetails(code string, req CreateBookingRequest) string {
	lastFour := "N/A"
	if n := len(req.PaymentDetails.CardNumber); n >= 4 {
		lastFour = req.PaymentDetails.CardNumber[n-4:]
	}

	details, _ := json.Marshal(map[string]any{
		"confirmation_code": code,
		"entity_id":         req.EntityID,
		"quantity":          req.Quantity,
		"payment_method":    req.PaymentMethod,
		"last_four_digits":  lastFour,
	})
	return string(details)
}

func refundDetails(reason string, originalAmount, refundPercentage float64) string {
	details, _ := json.Marshal(map[string]any{
		"reason":            reason,
		"original_amount":   originalAmount,
		"refund_percentage": refundPercentage * 100,
	})
	return string(details)
}
