package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/booking/api"
	"ms-booking/internal/booking/db"
	rediswrap "ms-booking/internal/booking/redis"
	"ms-booking/internal/config"
	"ms-booking/internal/kafka"
	"ms-booking/internal/models"
	"ms-booking/internal/property"
	"ms-booking/internal/users"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	// --- PostgreSQL Setup ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN()))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	db.Migrate(bunDB)

	// --- Redis Setup ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	log.Println("🔗 Connecting to Redis...")
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}

	// --- Kafka Setup ---
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{
			kafka.TopicBookingCreated,
			kafka.TopicBookingRequests,
		}); err != nil {
			log.Printf("⚠️ Could not ensure Kafka topics: %v", err)
		}
	}

	// --- Collaborator Clients ---
	httpClient := &http.Client{Timeout: cfg.Services.RequestTimeout}
	propertyClient := property.NewClient(httpClient, cfg.Services.PropertyServiceURL)
	userClient := users.NewClient(httpClient, cfg.Services.UserServiceURL)

	// --- Initialize Dependencies ---
	dbLayer := &db.DB{Bun: bunDB}
	redisLock := rediswrap.NewRedis(redisClient)
	log.Println("📦 Initializing Booking Service...")
	service := booking.NewService(dbLayer, redisLock, producer, propertyClient, userClient, propertyClient)
	handler := &api.Handler{Service: service, Queue: producer}

	// --- Booking Requests Consumer ---
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, kafka.TopicBookingRequests, cfg.Kafka.GroupID)
		go consumer.Start(func(req models.BookingRequest) {
			if _, err := service.Create(context.Background(), req); err != nil {
				log.Printf("⚠️ Queued booking creation failed: %v", err)
			}
		})
	}

	// --- Setup Router ---
	r := chi.NewRouter()
	r.Use(auth.Middleware())
	handler.RegisterRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("🚀 Booking Service running on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("📦 Shutdown signal received. Cleaning up...")

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Printf("⚠️ Failed to close Kafka consumer: %v", err)
		}
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
