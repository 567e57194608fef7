package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// GetTicketByID → one ticket with its enrollment and type, nil when it does not exist
func (d *DB) GetTicketByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Relation("Enrollment").
		Relation("TicketType").
		Where("ticket.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetPaymentByTicketID → the ticket's payment, nil when none exists
func (d *DB) GetPaymentByTicketID(ctx context.Context, ticketID int64) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("ticket_id = ?", ticketID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CompletePayment flips the ticket to PAID, attaches its QR code and
// inserts the payment row in one transaction, so a ticket can never be
// PAID without its payment record.
func (d *DB) CompletePayment(ctx context.Context, ticketID int64, qrCode []byte, payment *models.Payment) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		_, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("status = ?", models.TicketPaid).
			Set("qr_code = ?", qrCode).
			Set("updated_at = ?", now).
			Where("id = ?", ticketID).
			Exec(ctx)
		if err != nil {
			return err
		}

		if payment.CreatedAt.IsZero() {
			payment.CreatedAt = now
		}
		payment.UpdatedAt = now
		_, err = tx.NewInsert().
			Model(payment).
			Exec(ctx)
		return err
	})
}
