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

// GetTicketTypes → all ticket types, stable order
func (d *DB) GetTicketTypes(ctx context.Context) ([]models.TicketType, error) {
	var types []models.TicketType
	err := d.Bun.NewSelect().
		Model(&types).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return types, nil
}

// GetEnrollmentByUserID → the user's enrollment, nil when none exists
func (d *DB) GetEnrollmentByUserID(ctx context.Context, userID int64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := d.Bun.NewSelect().
		Model(&enrollment).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetTicketByEnrollmentID → the enrollment's ticket with its type, nil when none exists
func (d *DB) GetTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Relation("TicketType").
		Where("ticket.enrollment_id = ?", enrollmentID).
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

// GetTicketTypeByID → one ticket type, nil when it does not exist
func (d *DB) GetTicketTypeByID(ctx context.Context, id int64) (*models.TicketType, error) {
	var ticketType models.TicketType
	err := d.Bun.NewSelect().
		Model(&ticketType).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticketType, nil
}

// CreateTicket → insert a new ticket, populating its generated id
func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	ticket.UpdatedAt = time.Now()
	_, err := d.Bun.NewInsert().
		Model(ticket).
		Exec(ctx)
	return err
}
