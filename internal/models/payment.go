package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Payment records a completed purchase for one ticket. The value is
// copied from the ticket type at payment time and only the card issuer
// and last four digits are kept.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	TicketID       int64     `bun:"ticket_id,notnull,unique" json:"ticketId"`
	Value          float64   `bun:"value,notnull" json:"value"`
	CardIssuer     string    `bun:"card_issuer,notnull" json:"cardIssuer"`
	CardLastDigits string    `bun:"card_last_digits,notnull" json:"cardLastDigits"`
	TransactionID  string    `bun:"transaction_id,nullzero" json:"transactionId,omitempty"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero" json:"updatedAt"`

	Ticket *Ticket `bun:"rel:belongs-to,join:ticket_id=id" json:"-"`
}

type CardData struct {
	Issuer         string      `json:"issuer"`
	Number         json.Number `json:"number"`
	Name           string      `json:"name"`
	ExpirationDate string      `json:"expirationDate"`
	CVV            json.Number `json:"cvv"`
}

type PaymentRequest struct {
	TicketID int64    `json:"ticketId"`
	CardData CardData `json:"cardData"`
}
