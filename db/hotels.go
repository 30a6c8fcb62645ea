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

func CreateHotelRoomsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS hotel_rooms (
		hotel_id VARCHAR(64) NOT NULL,
		room_type VARCHAR(64) NOT NULL,
		price_per_night NUMERIC(10, 2) NOT NULL,
		total_rooms INTEGER NOT NULL,
		available_rooms INTEGER NOT NULL CHECK (available_rooms >= 0),
		PRIMARY KEY (hotel_id, room_type)
	);`)
	return err
}

type HotelRepo struct {
	db *sqlx.DB
}

func NewHotelRepo(db *sqlx.DB) HotelRepo {
	return HotelRepo{
		db: db,
	}
}

func (r HotelRepo) Add(ctx context.Context, room entity.HotelRoom) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO hotel_rooms
		(hotel_id, room_type, price_per_night, total_rooms, available_rooms)
		VALUES ($1, $2, $3, $4, $5);`,
		room.HotelID, room.RoomType, room.PricePerNight, room.TotalRooms, room.AvailableRooms)
	return err
}

func (r HotelRepo) Get(ctx context.Context, hotelID, roomType string) (entity.HotelRoom, error) {
	var room entity.HotelRoom
	err := r.db.GetContext(ctx, &room,
		`SELECT hotel_id, room_type, price_per_night, total_rooms, available_rooms
		FROM hotel_rooms WHERE hotel_id = $1 AND room_type = $2`, hotelID, roomType)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.HotelRoom{}, ErrNotFound
	}
	if err != nil {
		return entity.HotelRoom{}, fmt.Errorf("querying hotel room: %w", err)
	}

	return room, nil
}

// ListRooms lists a hotel's room types that still have availability.
func (r HotelRepo) ListRooms(ctx context.Context, hotelID string) ([]entity.HotelRoom, error) {
	var rooms []entity.HotelRoom
	err := r.db.SelectContext(ctx, &rooms,
		`SELECT hotel_id, room_type, price_per_night, total_rooms, available_rooms
		FROM hotel_rooms WHERE hotel_id = $1 AND available_rooms > 0 ORDER BY price_per_night`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("listing hotel rooms: %w", err)
	}

	return rooms, nil
}

// ReserveRooms locks the (hotel, room type) row and decrements the counter.
// Must run inside the caller's transaction.
func (r HotelRepo) ReserveRooms(ctx context.Context, tx *sqlx.Tx, hotelID, roomType string, quantity int) error {
	var available int
	err := tx.GetContext(ctx, &available,
		"SELECT available_rooms FROM hotel_rooms WHERE hotel_id = $1 AND room_type = $2 FOR UPDATE",
		hotelID, roomType)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("locking hotel room row: %w", err)
	}

	if available < quantity {
		return InsufficientError{Resource: "rooms", Requested: quantity, Available: available}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE hotel_rooms SET available_rooms = available_rooms - $1 WHERE hotel_id = $2 AND room_type = $3",
		quantity, hotelID, roomType)
	if err != nil {
		return fmt.Errorf("reserving rooms: %w", err)
	}

	return nil
}
