package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// ErrRoomFull is returned when a conditional booking write finds the
// target room already at capacity. The service layer maps it to an
// access-denied outcome.
var ErrRoomFull = errors.New("room is at capacity")

type DB struct {
	Bun *bun.DB
}

// GetBookingByUserID → the user's active booking with its room, nil when none exists
func (d *DB) GetBookingByUserID(ctx context.Context, userID int64) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Relation("Room").
		Where("booking.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingByID → one booking, nil when it does not exist
func (d *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetRoomByID → one room, nil when it does not exist
func (d *DB) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := d.Bun.NewSelect().
		Model(&room).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CountBookingsByRoomID → live count of bookings referencing the room
func (d *DB) CountBookingsByRoomID(ctx context.Context, roomID int64) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("room_id = ?", roomID).
		Count(ctx)
}

// CreateBookingIfAvailable inserts a booking for (userID, roomID) only if
// the room's live booking count is below capacity. Count and insert run
// in one transaction, so concurrent requests cannot both pass the
// capacity check and overfill the room.
func (d *DB) CreateBookingIfAvailable(ctx context.Context, userID, roomID int64, capacity int) (*models.Booking, error) {
	booking := &models.Booking{
		UserID:    userID,
		RoomID:    roomID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("room_id = ?", roomID).
			Count(ctx)
		if err != nil {
			return err
		}
		if count >= capacity {
			return ErrRoomFull
		}

		_, err = tx.NewInsert().
			Model(booking).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// MoveBookingIfAvailable swaps the booking's room in place, keeping its
// id stable. The capacity check excludes the booking itself so moving
// within the same room is a no-op rather than a spurious rejection.
func (d *DB) MoveBookingIfAvailable(ctx context.Context, bookingID, roomID int64, capacity int) (*models.Booking, error) {
	var booking models.Booking

	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("room_id = ?", roomID).
			Where("id != ?", bookingID).
			Count(ctx)
		if err != nil {
			return err
		}
		if count >= capacity {
			return ErrRoomFull
		}

		_, err = tx.NewUpdate().
			Model((*models.Booking)(nil)).
			Set("room_id = ?", roomID).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", bookingID).
			Exec(ctx)
		if err != nil {
			return err
		}

		return tx.NewSelect().
			Model(&booking).
			Where("id = ?", bookingID).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
