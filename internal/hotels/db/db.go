package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetHotels → all hotels, attributes only
func (d *DB) GetHotels(ctx context.Context) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := d.Bun.NewSelect().
		Model(&hotels).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

// GetHotelByID → one hotel including its rooms, nil when it does not exist
func (d *DB) GetHotelByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := d.Bun.NewSelect().
		Model(&hotel).
		Relation("Rooms").
		Where("hotel.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}
