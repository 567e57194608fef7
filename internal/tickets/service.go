package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ms-booking/internal/apperr"
	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type DBLayer interface {
	GetTicketTypes(ctx context.Context) ([]models.TicketType, error)
	GetEnrollmentByUserID(ctx context.Context, userID int64) (*models.Enrollment, error)
	GetTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Ticket, error)
	GetTicketTypeByID(ctx context.Context, id int64) (*models.TicketType, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB     DBLayer
	Kafka  KafkaPublisher
	Topics config.TopicConfig
	Logger *logger.Logger
}

func NewService(db DBLayer, kafka KafkaPublisher, topics config.TopicConfig, log *logger.Logger) *Service {
	return &Service{DB: db, Kafka: kafka, Topics: topics, Logger: log}
}

// ListTicketTypes is a passthrough read of the reference data.
func (s *Service) ListTicketTypes(ctx context.Context) ([]models.TicketType, error) {
	types, err := s.DB.GetTicketTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	return types, nil
}

// GetUserTicket returns the caller's ticket with its type.
func (s *Service) GetUserTicket(ctx context.Context, userID int64) (*models.Ticket, error) {
	enrollment, err := s.DB.GetEnrollmentByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollment for user %d: %w", userID, err)
	}
	if enrollment == nil {
		return nil, apperr.New(apperr.NotFound, "user has no enrollment")
	}

	ticket, err := s.DB.GetTicketByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket for enrollment %d: %w", enrollment.ID, err)
	}
	if ticket == nil {
		return nil, apperr.New(apperr.NotFound, "user has no ticket")
	}
	return ticket, nil
}

// CreateTicket reserves a ticket of the given type for the caller's
// enrollment. The ticket starts RESERVED and only a payment moves it to
// PAID.
func (s *Service) CreateTicket(ctx context.Context, userID, ticketTypeID int64) (*models.Ticket, error) {
	if ticketTypeID <= 0 {
		return nil, apperr.New(apperr.InvalidBody, "ticketTypeId is required")
	}

	enrollment, err := s.DB.GetEnrollmentByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollment for user %d: %w", userID, err)
	}
	if enrollment == nil {
		return nil, apperr.New(apperr.NotFound, "user has no enrollment")
	}

	ticketType, err := s.DB.GetTicketTypeByID(ctx, ticketTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket type %d: %w", ticketTypeID, err)
	}
	if ticketType == nil {
		return nil, apperr.New(apperr.NotFound, "ticket type not found")
	}

	ticket := &models.Ticket{
		TicketTypeID: ticketTypeID,
		EnrollmentID: enrollment.ID,
		Status:       models.TicketReserved,
	}
	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	ticket.TicketType = ticketType

	s.publishTicketEvent(ticket)
	return ticket, nil
}

func (s *Service) publishTicketEvent(ticket *models.Ticket) {
	if s.Kafka == nil {
		return
	}

	event := models.TicketEvent{
		EventID:      uuid.New().String(),
		Type:         "ticket.created",
		TicketID:     ticket.ID,
		EnrollmentID: ticket.EnrollmentID,
		TicketTypeID: ticket.TicketTypeID,
		Status:       string(ticket.Status),
		Timestamp:    time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal ticket event: %v", err))
		}
		return
	}

	if err := s.Kafka.Publish(s.Topics.TicketCreated, strconv.FormatInt(ticket.ID, 10), value); err != nil && s.Logger != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (ticket.created): %v", err))
	}
}
