package hotels

import (
	"context"
	"fmt"

	"ms-booking/internal/apperr"
	"ms-booking/internal/models"
)

type DBLayer interface {
	GetHotels(ctx context.Context) ([]models.Hotel, error)
	GetHotelByID(ctx context.Context, id int64) (*models.Hotel, error)
}

type EligibilityChecker interface {
	Check(ctx context.Context, userID int64) error
}

type Service struct {
	DB          DBLayer
	Eligibility EligibilityChecker
}

func NewService(db DBLayer, eligibility EligibilityChecker) *Service {
	return &Service{DB: db, Eligibility: eligibility}
}

// ListHotels returns every hotel once the caller passes the eligibility
// chain. Room lists are only attached on the single-hotel fetch.
func (s *Service) ListHotels(ctx context.Context, userID int64) ([]models.Hotel, error) {
	if err := s.Eligibility.Check(ctx, userID); err != nil {
		return nil, err
	}

	hotels, err := s.DB.GetHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

// GetHotel returns one hotel with its rooms.
func (s *Service) GetHotel(ctx context.Context, userID, hotelID int64) (*models.Hotel, error) {
	if err := s.Eligibility.Check(ctx, userID); err != nil {
		return nil, err
	}

	hotel, err := s.DB.GetHotelByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hotel %d: %w", hotelID, err)
	}
	if hotel == nil {
		return nil, apperr.New(apperr.NotFound, "hotel not found")
	}
	return hotel, nil
}
