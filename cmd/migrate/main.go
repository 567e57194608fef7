package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/config"
	"ms-booking/internal/models"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	// Drop tables in reverse dependency order
	log.Println("Dropping tables...")
	dropTables(ctx, db)

	// Create tables
	log.Println("Creating tables...")
	createTables(ctx, db)

	// Seed sample data
	log.Println("Seeding sample data...")
	seedData(ctx, db)

	log.Println("✅ Done.")
}

func dropTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.Payment)(nil),
		(*models.Booking)(nil),
		(*models.Ticket)(nil),
		(*models.Room)(nil),
		(*models.Hotel)(nil),
		(*models.TicketType)(nil),
		(*models.Enrollment)(nil),
		(*models.User)(nil),
	}
	for _, m := range tables {
		_, _ = db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx)
	}
}

func createTables(ctx context.Context, db *bun.DB) {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Enrollment)(nil),
		(*models.TicketType)(nil),
		(*models.Ticket)(nil),
		(*models.Hotel)(nil),
		(*models.Room)(nil),
		(*models.Booking)(nil),
		(*models.Payment)(nil),
	}
	for _, m := range tables {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			log.Fatalf("❌ Failed to create table for %T: %v", m, err)
		}
	}
}

func seedData(ctx context.Context, db *bun.DB) {
	ticketTypes := []models.TicketType{
		{Name: "In-person + Hotel", Price: 600, IsRemote: false, IncludesHotel: true},
		{Name: "In-person", Price: 400, IsRemote: false, IncludesHotel: false},
		{Name: "Online", Price: 100, IsRemote: true, IncludesHotel: false},
	}
	_, _ = db.NewInsert().Model(&ticketTypes).Exec(ctx)

	hotels := []models.Hotel{
		{Name: "Grand Plaza", Image: "https://example.com/grand-plaza.jpg"},
		{Name: "Riverside Inn", Image: "https://example.com/riverside-inn.jpg"},
	}
	_, _ = db.NewInsert().Model(&hotels).Exec(ctx)

	rooms := []models.Room{
		{Name: "101", Capacity: 2, HotelID: hotels[0].ID},
		{Name: "102", Capacity: 3, HotelID: hotels[0].ID},
		{Name: "201", Capacity: 1, HotelID: hotels[1].ID},
		{Name: "202", Capacity: 4, HotelID: hotels[1].ID},
	}
	_, _ = db.NewInsert().Model(&rooms).Exec(ctx)

	user := models.User{Email: "alice@example.com"}
	_, _ = db.NewInsert().Model(&user).Exec(ctx)

	enrollment := models.Enrollment{UserID: user.ID, Name: "Alice Wonderland", CPF: "12345678900"}
	_, _ = db.NewInsert().Model(&enrollment).Exec(ctx)

	log.Printf("Seeded %d ticket types, %d hotels, %d rooms, 1 user", len(ticketTypes), len(hotels), len(rooms))
}
