package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	booking_api "ms-booking/internal/booking/api"
	booking_db "ms-booking/internal/booking/db"
	rediswrap "ms-booking/internal/booking/redis"
	"ms-booking/internal/config"
	"ms-booking/internal/eligibility"
	"ms-booking/internal/hotels"
	hotels_api "ms-booking/internal/hotels/api"
	hotels_db "ms-booking/internal/hotels/db"
	"ms-booking/internal/kafka"
	"ms-booking/internal/logger"
	"ms-booking/internal/payments"
	payments_api "ms-booking/internal/payments/api"
	payments_db "ms-booking/internal/payments/db"
	"ms-booking/internal/tickets"
	tickets_api "ms-booking/internal/tickets/api"
	tickets_db "ms-booking/internal/tickets/db"
	"ms-booking/internal/tickets/qr"
)

func connectPostgres(cfg config.DatabaseConfig, logger *logger.Logger) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database, logger)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg.Redis, logger)
	defer redisClient.Close()

	var bookingPublisher booking.KafkaPublisher
	var ticketPublisher tickets.KafkaPublisher
	var paymentPublisher payments.KafkaPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		logger.Info("KAFKA", "Kafka producer initialized successfully")

		requiredTopics := []string{
			cfg.Kafka.Topics.BookingCreated,
			cfg.Kafka.Topics.BookingUpdated,
			cfg.Kafka.Topics.TicketCreated,
			cfg.Kafka.Topics.PaymentProcessed,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}

		bookingPublisher = producer
		ticketPublisher = producer
		paymentPublisher = producer
	} else {
		logger.Warn("KAFKA", "Kafka disabled, events will not be published")
	}

	tokenCache := auth.NewTokenCache(redisClient, cfg.Auth.TokenCacheTTL)
	verifier, err := auth.NewVerifier(ctx, cfg.Auth, tokenCache, logger)
	if err != nil {
		logger.Fatal("AUTH", fmt.Sprintf("Failed to initialize token verifier: %v", err))
	}

	ticketDB := &tickets_db.DB{Bun: bunDB}
	eligibilityChecker := eligibility.NewEvaluator(ticketDB)

	ticketService := tickets.NewService(ticketDB, ticketPublisher, cfg.Kafka.Topics, logger)
	hotelService := hotels.NewService(&hotels_db.DB{Bun: bunDB}, eligibilityChecker)
	bookingService := booking.NewService(
		&booking_db.DB{Bun: bunDB},
		rediswrap.NewRedis(redisClient, cfg.Redis.RoomLockTTL),
		bookingPublisher,
		eligibilityChecker,
		cfg.Kafka.Topics,
		logger,
	)

	var gateway payments.PaymentGateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(cfg.Payment.StripeSecretKey, logger)
		logger.Info("PAYMENT", "Stripe gateway enabled")
	} else {
		logger.Warn("PAYMENT", "STRIPE_SECRET_KEY not set, payments will be recorded without a processor")
	}
	paymentService := payments.NewService(
		&payments_db.DB{Bun: bunDB},
		gateway,
		qr.NewQRGenerator(cfg.Payment.QRSecret),
		paymentPublisher,
		cfg.Kafka.Topics,
		logger,
	)

	bookingHandler := booking_api.NewHandler(bookingService, logger)
	hotelHandler := hotels_api.NewHandler(hotelService, logger)
	ticketHandler := tickets_api.NewHandler(ticketService, logger)
	paymentHandler := payments_api.NewHandler(paymentService, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(verifier.Middleware())
		logger.Info("AUTH", "Bearer token middleware applied to protected routes")

		r.Route("/booking", func(r chi.Router) {
			r.Get("/", bookingHandler.GetBooking)
			r.Post("/", bookingHandler.CreateBooking)
			r.Put("/{bookingId}", bookingHandler.UpdateBooking)
		})
		logger.Info("ROUTER", "Booking routes registered under /booking")

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", hotelHandler.ListHotels)
			r.Get("/{hotelId}", hotelHandler.GetHotel)
		})
		logger.Info("ROUTER", "Hotel routes registered under /hotels")

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/types", ticketHandler.ListTicketTypes)
			r.Get("/", ticketHandler.GetUserTicket)
			r.Post("/", ticketHandler.CreateTicket)
		})
		logger.Info("ROUTER", "Ticket routes registered under /tickets")

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", paymentHandler.GetPayment)
			r.Post("/process", paymentHandler.ProcessPayment)
		})
		logger.Info("ROUTER", "Payment routes registered under /payments")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Booking Service shutdown complete")
	}
}
