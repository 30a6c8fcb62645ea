package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"travel/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateBookingsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS bookings (
		booking_id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		booking_type VARCHAR(16) NOT NULL,
		booking_reference VARCHAR(64) NOT NULL,
		room_type VARCHAR(64) NOT NULL DEFAULT '',
		confirmation_code VARCHAR(32) NOT NULL UNIQUE,
		status VARCHAR(16) NOT NULL,
		start_date TIMESTAMP WITH TIME ZONE NOT NULL,
		end_date TIMESTAMP WITH TIME ZONE NOT NULL,
		guests INTEGER NOT NULL,
		total_amount NUMERIC(10, 2) NOT NULL,
		special_requests TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);`)
	return err
}

const bookingColumns = `booking_id, user_id, booking_type, booking_reference, room_type,
	confirmation_code, status, start_date, end_date, guests, total_amount,
	special_requests, created_at, updated_at`

// TimeFilter values for user booking history queries.
const (
	FilterPast    = "past"
	FilterCurrent = "current"
	FilterFuture  = "future"
)

type BookingFilter struct {
	Time        string // past, current, future or empty for all
	BookingType string // flight, hotel, car or empty for all
}

type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) BookingRepo {
	return BookingRepo{
		db: db,
	}
}

// Insert writes a booking inside the caller's transaction so it commits or
// rolls back together with the inventory decrement and the payment row.
func (r BookingRepo) Insert(ctx context.Context, tx *sqlx.Tx, b entity.Booking) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO bookings
		(booking_id, user_id, booking_type, booking_reference, room_type,
		confirmation_code, status, start_date, end_date, guests, total_amount, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		b.BookingID, b.UserID, b.BookingType, b.BookingReference, b.RoomType,
		b.ConfirmationCode, b.Status, b.StartDate, b.EndDate, b.Guests, b.TotalAmount,
		b.SpecialRequests)
	return err
}

func (r BookingRepo) UpdateStatus(ctx context.Context, tx *sqlx.Tx, bookingID, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE booking_id = $2",
		status, bookingID)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n != 1 {
		return ErrNotFound
	}

	return nil
}

// GetForUpdate locks the booking row for the duration of the caller's
// transaction.
func (r BookingRepo) GetForUpdate(ctx context.Context, tx *sqlx.Tx, bookingID string) (entity.Booking, error) {
	var b entity.Booking
	err := tx.GetContext(ctx, &b,
		fmt.Sprintf("SELECT %s FROM bookings WHERE booking_id = $1 FOR UPDATE", bookingColumns),
		bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, ErrNotFound
	}
	if err != nil {
		return entity.Booking{}, fmt.Errorf("locking booking row: %w", err)
	}

	return b, nil
}

func (r BookingRepo) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	var b entity.Booking
	err := r.db.GetContext(ctx, &b,
		fmt.Sprintf("SELECT %s FROM bookings WHERE booking_id = $1", bookingColumns), bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, ErrNotFound
	}
	if err != nil {
		return entity.Booking{}, fmt.Errorf("querying booking: %w", err)
	}

	return b, nil
}

// CodeExists reports whether a confirmation code is already taken. It runs in
// the booking transaction so the collision check and the insert see the same
// snapshot.
func (r BookingRepo) CodeExists(ctx context.Context, tx *sqlx.Tx, code string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM bookings WHERE confirmation_code = $1)", code)
	if err != nil {
		return false, fmt.Errorf("checking confirmation code: %w", err)
	}

	return exists, nil
}

func (r BookingRepo) GetByUser(ctx context.Context, userID string, filter BookingFilter) ([]entity.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE user_id = $1", bookingColumns)
	args := []any{userID}

	if filter.BookingType != "" {
		args = append(args, filter.BookingType)
		query += fmt.Sprintf(" AND booking_type = $%d", len(args))
	}

	now := time.Now().UTC()
	switch filter.Time {
	case FilterPast:
		args = append(args, now)
		query += fmt.Sprintf(" AND end_date < $%d", len(args))
	case FilterCurrent:
		args = append(args, now)
		query += fmt.Sprintf(" AND start_date <= $%d AND end_date >= $%d", len(args), len(args))
	case FilterFuture:
		args = append(args, now)
		query += fmt.Sprintf(" AND start_date > $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("querying user bookings: %w", err)
	}

	return bookings, nil
}

func (r BookingRepo) List(ctx context.Context, limit int) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings,
		fmt.Sprintf("SELECT %s FROM bookings ORDER BY created_at DESC LIMIT $1", bookingColumns),
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}

	return bookings, nil
}
