package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ms-booking/internal/apperr"
	db "ms-booking/internal/booking/db"
	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type DBLayer interface {
	GetBookingByUserID(ctx context.Context, userID int64) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	GetRoomByID(ctx context.Context, id int64) (*models.Room, error)
	CreateBookingIfAvailable(ctx context.Context, userID, roomID int64, capacity int) (*models.Booking, error)
	MoveBookingIfAvailable(ctx context.Context, bookingID, roomID int64, capacity int) (*models.Booking, error)
}

type RoomLocker interface {
	LockRoom(ctx context.Context, roomID int64, owner string) (bool, error)
	UnlockRoom(ctx context.Context, roomID int64, owner string) error
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type EligibilityChecker interface {
	Check(ctx context.Context, userID int64) error
}

type Service struct {
	DB          DBLayer
	Redis       RoomLocker
	Kafka       KafkaPublisher
	Eligibility EligibilityChecker
	Topics      config.TopicConfig
	Logger      *logger.Logger
}

func NewService(dbLayer DBLayer, redis RoomLocker, kafka KafkaPublisher, eligibility EligibilityChecker, topics config.TopicConfig, log *logger.Logger) *Service {
	return &Service{
		DB:          dbLayer,
		Redis:       redis,
		Kafka:       kafka,
		Eligibility: eligibility,
		Topics:      topics,
		Logger:      log,
	}
}

// GetUserBooking returns the caller's active booking with its room.
func (s *Service) GetUserBooking(ctx context.Context, userID int64) (*models.Booking, error) {
	if err := s.Eligibility.Check(ctx, userID); err != nil {
		return nil, err
	}

	booking, err := s.DB.GetBookingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking for user %d: %w", userID, err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.NotFound, "user has no booking")
	}
	return booking, nil
}

// CreateBooking reserves a room for the caller. The room's capacity is
// enforced by a conditional insert inside one transaction; the redis
// room lock only serializes concurrent mutations of the same room.
func (s *Service) CreateBooking(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
	if err := s.Eligibility.Check(ctx, userID); err != nil {
		return nil, err
	}

	if roomID <= 0 {
		return nil, apperr.New(apperr.AccessDenied, "invalid room id")
	}

	existing, err := s.DB.GetBookingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "user already has a booking")
	}

	room, err := s.DB.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %d: %w", roomID, err)
	}
	if room == nil {
		return nil, apperr.New(apperr.NotFound, "room not found")
	}

	unlock, err := s.lockRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	booking, err := s.DB.CreateBookingIfAvailable(ctx, userID, roomID, room.Capacity)
	if errors.Is(err, db.ErrRoomFull) {
		return nil, apperr.Wrap(apperr.AccessDenied, "room is full", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishBookingEvent(s.Topics.BookingCreated, "booking.created", booking)
	return booking, nil
}

// UpdateBooking moves the caller's booking to another room, preserving
// the booking id. A missing booking surfaces as an authorization
// failure so callers cannot probe which booking ids exist.
func (s *Service) UpdateBooking(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error) {
	if err := s.Eligibility.Check(ctx, userID); err != nil {
		return nil, err
	}

	if bookingID <= 0 {
		return nil, apperr.New(apperr.AccessDenied, "invalid booking id")
	}
	if roomID <= 0 {
		return nil, apperr.New(apperr.AccessDenied, "invalid room id")
	}

	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.AccessDenied, "booking not found")
	}
	if booking.UserID != userID {
		return nil, apperr.New(apperr.AccessDenied, "booking belongs to another user")
	}

	room, err := s.DB.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %d: %w", roomID, err)
	}
	if room == nil {
		return nil, apperr.New(apperr.NotFound, "room not found")
	}

	unlock, err := s.lockRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	updated, err := s.DB.MoveBookingIfAvailable(ctx, bookingID, roomID, room.Capacity)
	if errors.Is(err, db.ErrRoomFull) {
		return nil, apperr.Wrap(apperr.AccessDenied, "room is full", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.publishBookingEvent(s.Topics.BookingUpdated, "booking.updated", updated)
	return updated, nil
}

func (s *Service) lockRoom(ctx context.Context, roomID int64) (func(), error) {
	if s.Redis == nil {
		return func() {}, nil
	}

	owner := uuid.New().String()
	ok, err := s.Redis.LockRoom(ctx, roomID, owner)
	if err != nil {
		return nil, fmt.Errorf("redis lock error: %w", err)
	}
	if !ok {
		return nil, apperr.New(apperr.Conflict, "room is being booked by another request")
	}

	return func() {
		if err := s.Redis.UnlockRoom(context.Background(), roomID, owner); err != nil && s.Logger != nil {
			s.Logger.Error("BOOKING", fmt.Sprintf("Failed to unlock room %d: %v", roomID, err))
		}
	}, nil
}

func (s *Service) publishBookingEvent(topic, eventType string, booking *models.Booking) {
	if s.Kafka == nil {
		return
	}

	event := models.BookingEvent{
		EventID:   uuid.New().String(),
		Type:      eventType,
		BookingID: booking.ID,
		UserID:    booking.UserID,
		RoomID:    booking.RoomID,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal %s event: %v", eventType, err))
		}
		return
	}

	if err := s.Kafka.Publish(topic, strconv.FormatInt(booking.ID, 10), value); err != nil && s.Logger != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (%s): %v", eventType, err))
	}
}
