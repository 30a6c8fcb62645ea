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

func CreateCarsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS cars (
		car_id VARCHAR(64) PRIMARY KEY,
		model VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		daily_rate NUMERIC(10, 2) NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE
	);`)
	return err
}

type CarRepo struct {
	db *sqlx.DB
}

func NewCarRepo(db *sqlx.DB) CarRepo {
	return CarRepo{
		db: db,
	}
}

func (r CarRepo) Add(ctx context.Context, car entity.Car) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO cars
		(car_id, model, location, daily_rate, available)
		VALUES ($1, $2, $3, $4, $5);`,
		car.CarID, car.Model, car.Location, car.DailyRate, car.Available)
	return err
}

func (r CarRepo) Get(ctx context.Context, carID string) (entity.Car, error) {
	var c entity.Car
	err := r.db.GetContext(ctx, &c,
		"SELECT car_id, model, location, daily_rate, available FROM cars WHERE car_id = $1", carID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Car{}, ErrNotFound
	}
	if err != nil {
		return entity.Car{}, fmt.Errorf("querying car: %w", err)
	}

	return c, nil
}

// Search lists available cars, optionally narrowed by pickup location.
func (r CarRepo) Search(ctx context.Context, location string) ([]entity.Car, error) {
	query := "SELECT car_id, model, location, daily_rate, available FROM cars WHERE available = TRUE"
	var args []any

	if location != "" {
		args = append(args, location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}
	query += " ORDER BY daily_rate"

	var cars []entity.Car
	if err := r.db.SelectContext(ctx, &cars, query, args...); err != nil {
		return nil, fmt.Errorf("searching cars: %w", err)
	}

	return cars, nil
}

// ReserveCar locks the car row and flips it to unavailable. A car is a single
// unit of inventory, so reserving one that is already taken fails.
func (r CarRepo) ReserveCar(ctx context.Context, tx *sqlx.Tx, carID string) error {
	var available bool
	err := tx.GetContext(ctx, &available,
		"SELECT available FROM cars WHERE car_id = $1 FOR UPDATE", carID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("locking car row: %w", err)
	}

	if !available {
		return InsufficientError{Resource: "cars", Requested: 1, Available: 0}
	}

	_, err = tx.ExecContext(ctx, "UPDATE cars SET available = FALSE WHERE car_id = $1", carID)
	if err != nil {
		return fmt.Errorf("reserving car: %w", err)
	}

	return nil
}
