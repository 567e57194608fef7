package models

import "time"

// Event payloads published to Kafka when bookings, tickets and payments
// change. Consumers (notifications, reporting) are external services.

type BookingEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	BookingID int64     `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}

type TicketEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	TicketID     int64     `json:"ticket_id"`
	EnrollmentID int64     `json:"enrollment_id"`
	TicketTypeID int64     `json:"ticket_type_id"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

type PaymentEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	PaymentID     int64     `json:"payment_id"`
	TicketID      int64     `json:"ticket_id"`
	Value         float64   `json:"value"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
