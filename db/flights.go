package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"travel/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateFlightsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS flights (
		flight_id VARCHAR(64) PRIMARY KEY,
		airline VARCHAR(255) NOT NULL,
		origin VARCHAR(8) NOT NULL,
		destination VARCHAR(8) NOT NULL,
		departure_time TIMESTAMP WITH TIME ZONE NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		total_seats INTEGER NOT NULL,
		available_seats INTEGER NOT NULL CHECK (available_seats >= 0)
	);`)
	return err
}

type FlightRepo struct {
	db *sqlx.DB
}

func NewFlightRepo(db *sqlx.DB) FlightRepo {
	return FlightRepo{
		db: db,
	}
}

func (r FlightRepo) Add(ctx context.Context, flight entity.Flight) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO flights
		(flight_id, airline, origin, destination, departure_time, price, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		flight.FlightID, flight.Airline, flight.Origin, flight.Destination,
		flight.DepartureTime, flight.Price, flight.TotalSeats, flight.AvailableSeats)
	return err
}

func (r FlightRepo) Get(ctx context.Context, flightID string) (entity.Flight, error) {
	var f entity.Flight
	err := r.db.GetContext(ctx, &f,
		`SELECT flight_id, airline, origin, destination, departure_time, price, total_seats, available_seats
		FROM flights WHERE flight_id = $1`, flightID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Flight{}, ErrNotFound
	}
	if err != nil {
		return entity.Flight{}, fmt.Errorf("querying flight: %w", err)
	}

	return f, nil
}

// Search lists flights with seats remaining, optionally narrowed by route.
func (r FlightRepo) Search(ctx context.Context, origin, destination string) ([]entity.Flight, error) {
	query := `SELECT flight_id, airline, origin, destination, departure_time, price, total_seats, available_seats
		FROM flights WHERE available_seats > 0`
	var args []any

	if origin != "" {
		args = append(args, origin)
		query += fmt.Sprintf(" AND origin = $%d", len(args))
	}
	if destination != "" {
		args = append(args, destination)
		query += fmt.Sprintf(" AND destination = $%d", len(args))
	}
	query += " ORDER BY departure_time"

	var flights []entity.Flight
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, fmt.Errorf("searching flights: %w", err)
	}

	return flights, nil
}

// ReserveSeats locks the flight row and decrements the seat counter. It must
// run inside the caller's transaction so the lock is released on commit or
// rollback.
func (r FlightRepo) ReserveSeats(ctx context.Context, tx *sqlx.Tx, flightID string, quantity int) error {
	var available int
	err := tx.GetContext(ctx, &available,
		"SELECT available_seats FROM flights WHERE flight_id = $1 FOR UPDATE", flightID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("locking flight row: %w", err)
	}

	if available < quantity {
		return InsufficientError{Resource: "seats", Requested: quantity, Available: available}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE flights SET available_seats = available_seats - $1 WHERE flight_id = $2",
		quantity, flightID)
	if err != nil {
		return fmt.Errorf("reserving seats: %w", err)
	}

	return nil
}
