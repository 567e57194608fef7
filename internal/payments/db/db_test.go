package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-booking/internal/models"
	"ms-booking/internal/payments/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Enrollment)(nil),
		(*models.TicketType)(nil),
		(*models.Ticket)(nil),
		(*models.Payment)(nil),
	}
	for _, m := range tables {
		if err := bunDB.ResetModel(ctx, m); err != nil {
			t.Fatalf("Failed to reset model %T: %v", m, err)
		}
	}

	return &db.DB{Bun: bunDB}
}

func seedReservedTicket(t *testing.T, d *db.DB) *models.Ticket {
	t.Helper()

	ctx := context.Background()
	user := &models.User{Email: "alice@example.com"}
	if _, err := d.Bun.NewInsert().Model(user).Exec(ctx); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	enrollment := &models.Enrollment{UserID: user.ID, Name: "Alice Wonderland", CPF: "12345678900"}
	if _, err := d.Bun.NewInsert().Model(enrollment).Exec(ctx); err != nil {
		t.Fatalf("Failed to insert enrollment: %v", err)
	}

	ticketType := &models.TicketType{Name: "In-person + Hotel", Price: 600, IncludesHotel: true}
	if _, err := d.Bun.NewInsert().Model(ticketType).Exec(ctx); err != nil {
		t.Fatalf("Failed to insert ticket type: %v", err)
	}

	ticket := &models.Ticket{
		TicketTypeID: ticketType.ID,
		EnrollmentID: enrollment.ID,
		Status:       models.TicketReserved,
	}
	if _, err := d.Bun.NewInsert().Model(ticket).Exec(ctx); err != nil {
		t.Fatalf("Failed to insert ticket: %v", err)
	}
	return ticket
}

func TestGetTicketByIDLoadsRelations(t *testing.T) {
	d := setupTestDB(t)
	ticket := seedReservedTicket(t, d)
	ctx := context.Background()

	found, err := d.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to fetch ticket: %v", err)
	}
	if found == nil {
		t.Fatal("Expected a ticket, got nil")
	}
	if found.Enrollment == nil {
		t.Error("Expected the enrollment relation to be loaded")
	}
	if found.TicketType == nil || found.TicketType.Price != 600 {
		t.Error("Expected the ticket type relation to be loaded")
	}
}

func TestGetTicketByIDMissing(t *testing.T) {
	d := setupTestDB(t)

	ticket, err := d.GetTicketByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("Expected no error for missing ticket, got %v", err)
	}
	if ticket != nil {
		t.Errorf("Expected nil for unknown ticket, got %+v", ticket)
	}
}

func TestCompletePayment(t *testing.T) {
	d := setupTestDB(t)
	ticket := seedReservedTicket(t, d)
	ctx := context.Background()

	payment := &models.Payment{
		TicketID:       ticket.ID,
		Value:          600,
		CardIssuer:     "VISA",
		CardLastDigits: "1111",
		TransactionID:  "pi_test_123",
	}
	if err := d.CompletePayment(ctx, ticket.ID, []byte("qr-png-bytes"), payment); err != nil {
		t.Fatalf("Failed to complete payment: %v", err)
	}

	updated, err := d.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to fetch ticket: %v", err)
	}
	if updated.Status != models.TicketPaid {
		t.Errorf("Expected ticket to flip to PAID, got %s", updated.Status)
	}
	if string(updated.QRCode) != "qr-png-bytes" {
		t.Error("Expected the QR code to be attached to the ticket")
	}

	stored, err := d.GetPaymentByTicketID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to fetch payment: %v", err)
	}
	if stored == nil {
		t.Fatal("Expected a payment row, got nil")
	}
	if stored.Value != 600 || stored.CardLastDigits != "1111" {
		t.Errorf("Expected stored payment to match, got %+v", stored)
	}
}

func TestGetPaymentByTicketIDNone(t *testing.T) {
	d := setupTestDB(t)
	ticket := seedReservedTicket(t, d)

	payment, err := d.GetPaymentByTicketID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("Expected no error for missing payment, got %v", err)
	}
	if payment != nil {
		t.Errorf("Expected nil for unpaid ticket, got %+v", payment)
	}
}
