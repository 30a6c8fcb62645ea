package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateFlightsTable(ctx, db); err != nil {
		return fmt.Errorf("creating flights table: %w", err)
	}

	if err := CreateHotelRoomsTable(ctx, db); err != nil {
		return fmt.Errorf("creating hotel_rooms table: %w", err)
	}

	if err := CreateCarsTable(ctx, db); err != nil {
		return fmt.Errorf("creating cars table: %w", err)
	}

	if err := CreateBookingsTable(ctx, db); err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	if err := CreatePaymentsTable(ctx, db); err != nil {
		return fmt.Errorf("creating payments table: %w", err)
	}

	return nil
}
