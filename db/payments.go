package db

import (
	"context"
	"fmt"
	"travel/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreatePaymentsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS payments (
		payment_id UUID PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		booking_id UUID NOT NULL,
		booking_type VARCHAR(16) NOT NULL,
		amount NUMERIC(10, 2) NOT NULL,
		currency CHAR(3) NOT NULL,
		tax NUMERIC(10, 2) NOT NULL DEFAULT 0,
		payment_method VARCHAR(32) NOT NULL,
		status VARCHAR(16) NOT NULL,
		transaction_ref VARCHAR(64) NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);`)
	return err
}

const paymentColumns = `payment_id, user_id, booking_id, booking_type, amount, currency,
	tax, payment_method, status, transaction_ref, details, created_at`

type PaymentRepo struct {
	db *sqlx.DB
}

func NewPaymentRepo(db *sqlx.DB) PaymentRepo {
	return PaymentRepo{
		db: db,
	}
}

// Insert writes a payment row inside the caller's transaction. Refunds are new
// rows with a negative amount, never updates of the original charge.
func (r PaymentRepo) Insert(ctx context.Context, tx *sqlx.Tx, p entity.Payment) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO payments
		(payment_id, user_id, booking_id, booking_type, amount, currency, tax,
		payment_method, status, transaction_ref, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		p.PaymentID, p.UserID, p.BookingID, p.BookingType, p.Amount, p.Currency, p.Tax,
		p.PaymentMethod, p.Status, p.TransactionRef, p.Details)
	return err
}

func (r PaymentRepo) GetByBooking(ctx context.Context, bookingID string) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.SelectContext(ctx, &payments,
		fmt.Sprintf("SELECT %s FROM payments WHERE booking_id = $1 ORDER BY created_at", paymentColumns),
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("querying booking payments: %w", err)
	}

	return payments, nil
}

func (r PaymentRepo) GetByUser(ctx context.Context, userID string) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.SelectContext(ctx, &payments,
		fmt.Sprintf("SELECT %s FROM payments WHERE user_id = $1 ORDER BY created_at DESC", paymentColumns),
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying user payments: %w", err)
	}

	return payments, nil
}
