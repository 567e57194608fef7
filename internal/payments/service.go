package payments

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
	GetTicketByID(ctx context.Context, id int64) (*models.Ticket, error)
	GetPaymentByTicketID(ctx context.Context, ticketID int64) (*models.Payment, error)
	CompletePayment(ctx context.Context, ticketID int64, qrCode []byte, payment *models.Payment) error
}

// PaymentGateway charges the card with an external processor. A nil
// gateway means payments are recorded without an external charge.
type PaymentGateway interface {
	CreateIntent(amount float64, description string) (string, error)
}

// QRIssuer produces the encrypted QR attached to a ticket once paid.
type QRIssuer interface {
	GenerateEncryptedQR(ticket models.Ticket) ([]byte, error)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB      DBLayer
	Gateway PaymentGateway
	QR      QRIssuer
	Kafka   KafkaPublisher
	Topics  config.TopicConfig
	Logger  *logger.Logger
}

func NewService(db DBLayer, gateway PaymentGateway, qr QRIssuer, kafka KafkaPublisher, topics config.TopicConfig, log *logger.Logger) *Service {
	return &Service{DB: db, Gateway: gateway, QR: qr, Kafka: kafka, Topics: topics, Logger: log}
}

// GetPayment returns the payment for a ticket the caller owns.
func (s *Service) GetPayment(ctx context.Context, userID, ticketID int64) (*models.Payment, error) {
	if ticketID <= 0 {
		return nil, apperr.New(apperr.InvalidBody, "ticketId is required")
	}

	ticket, err := s.DB.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", ticketID, err)
	}
	if ticket == nil {
		return nil, apperr.New(apperr.NotFound, "ticket not found")
	}
	if ticket.Enrollment == nil || ticket.Enrollment.UserID != userID {
		return nil, apperr.New(apperr.Unauthorized, "ticket belongs to another user")
	}

	payment, err := s.DB.GetPaymentByTicketID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment for ticket %d: %w", ticketID, err)
	}
	if payment == nil {
		return nil, apperr.New(apperr.NotFound, "payment not found")
	}
	return payment, nil
}

// ProcessPayment charges for a RESERVED ticket and flips it to PAID. The
// payment copies the ticket type's price and keeps only the card issuer
// and last four digits. Paying an already-paid ticket is a conflict.
func (s *Service) ProcessPayment(ctx context.Context, userID int64, req models.PaymentRequest) (*models.Payment, error) {
	if req.TicketID <= 0 {
		return nil, apperr.New(apperr.InvalidBody, "ticketId is required")
	}

	ticket, err := s.DB.GetTicketByID(ctx, req.TicketID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", req.TicketID, err)
	}
	if ticket == nil {
		return nil, apperr.New(apperr.NotFound, "ticket not found")
	}
	if ticket.Enrollment == nil || ticket.Enrollment.UserID != userID {
		return nil, apperr.New(apperr.Unauthorized, "ticket belongs to another user")
	}
	if ticket.Status == models.TicketPaid {
		return nil, apperr.New(apperr.Conflict, "ticket has already been paid")
	}
	if ticket.TicketType == nil {
		return nil, fmt.Errorf("ticket %d has no ticket type", ticket.ID)
	}

	payment := &models.Payment{
		TicketID:       ticket.ID,
		Value:          ticket.TicketType.Price,
		CardIssuer:     req.CardData.Issuer,
		CardLastDigits: lastFourDigits(req.CardData.Number.String()),
	}

	if s.Gateway != nil {
		txID, err := s.Gateway.CreateIntent(payment.Value, fmt.Sprintf("ticket %d", ticket.ID))
		if err != nil {
			return nil, fmt.Errorf("payment gateway error: %w", err)
		}
		payment.TransactionID = txID
	}

	qrCode := s.issueQR(*ticket)

	if err := s.DB.CompletePayment(ctx, ticket.ID, qrCode, payment); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	s.publishPaymentEvent(payment)
	return payment, nil
}

// issueQR encodes the ticket as it will look after the status flip. QR
// issuance is best-effort: a paid ticket without a QR can be reissued,
// a failed payment cannot.
func (s *Service) issueQR(ticket models.Ticket) []byte {
	if s.QR == nil {
		return nil
	}

	ticket.Status = models.TicketPaid
	qrCode, err := s.QR.GenerateEncryptedQR(ticket)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("PAYMENT", fmt.Sprintf("Failed to generate QR for ticket %d: %v", ticket.ID, err))
		}
		return nil
	}
	return qrCode
}

// lastFourDigits keeps the tail of the card number the way card
// statements print it. Shorter inputs are kept whole.
func lastFourDigits(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

func (s *Service) publishPaymentEvent(payment *models.Payment) {
	if s.Kafka == nil {
		return
	}

	event := models.PaymentEvent{
		EventID:       uuid.New().String(),
		Type:          "payment.processed",
		PaymentID:     payment.ID,
		TicketID:      payment.TicketID,
		Value:         payment.Value,
		TransactionID: payment.TransactionID,
		Timestamp:     time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal payment event: %v", err))
		}
		return
	}

	if err := s.Kafka.Publish(s.Topics.PaymentProcessed, strconv.FormatInt(payment.TicketID, 10), value); err != nil && s.Logger != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (payment.processed): %v", err))
	}
}
