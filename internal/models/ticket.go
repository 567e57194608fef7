package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

// TicketType is immutable reference data describing what a ticket grants:
// its price, whether attendance is remote, and whether a hotel stay is
// included.
type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	Name          string  `bun:"name,notnull" json:"name"`
	Price         float64 `bun:"price,notnull" json:"price"`
	IsRemote      bool    `bun:"is_remote,notnull" json:"isRemote"`
	IncludesHotel bool    `bun:"includes_hotel,notnull" json:"includesHotel"`
}

// Ticket is created RESERVED and flips to PAID exactly once, via a
// successful payment. The QR code is issued at payment time.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID           int64        `bun:"id,pk,autoincrement" json:"id"`
	TicketTypeID int64        `bun:"ticket_type_id,notnull" json:"ticketTypeId"`
	EnrollmentID int64        `bun:"enrollment_id,notnull" json:"enrollmentId"`
	Status       TicketStatus `bun:"status,notnull" json:"status"`
	QRCode       []byte       `bun:"qr_code" json:"-"`
	CreatedAt    time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time    `bun:"updated_at,nullzero" json:"updatedAt"`

	TicketType *TicketType `bun:"rel:belongs-to,join:ticket_type_id=id" json:"TicketType,omitempty"`
	Enrollment *Enrollment `bun:"rel:belongs-to,join:enrollment_id=id" json:"Enrollment,omitempty"`
}

type TicketRequest struct {
	TicketTypeID int64 `json:"ticketTypeId"`
}
