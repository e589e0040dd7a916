package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus-pos/internal/app"
	"nexus-pos/internal/cache"
	"nexus-pos/internal/config"
	"nexus-pos/internal/events"
	"nexus-pos/internal/ws"
	"nexus-pos/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database())
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// 3. Seed default privileges, roles, and admin user
	ctx := context.Background()
	if err := app.Seed(ctx, db, app.SeedOptions{AdminEmail: cfg.SeedAdminEmail, AdminPassword: cfg.SeedAdminPassword}); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// 4. Optional infrastructure
	dashCache, closeCache := setupCache(ctx, cfg)
	publisher := setupPublisher(cfg)

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Setup Fiber
	server := app.New(app.Deps{
		Config:    cfg,
		DB:        db,
		Hub:       wsHub,
		Cache:     dashCache,
		Publisher: publisher,
	})

	// 7. Graceful Shutdown
	go func() {
		if err := server.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	wsHub.Close()
	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}
	closeCache()
	if err := database.Close(db); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("Server exited")
}

// setupCache prefers Redis and falls back to an in-process cache.
func setupCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		log.Println("Dashboard cache: in-memory")
		return cache.NewMemoryCache(), func() {}
	}

	rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unreachable at %s (%v), using in-memory cache", cfg.RedisAddr, err)
		_ = rc.Close()
		return cache.NewMemoryCache(), func() {}
	}

	log.Printf("Dashboard cache: redis %s", cfg.RedisAddr)
	return rc, func() {
		if err := rc.Close(); err != nil {
			log.Printf("Failed to close redis: %v", err)
		}
	}
}

func setupPublisher(cfg config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		log.Println("Event publisher: disabled")
		return events.NoopPublisher{}
	}

	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Printf("Warning: AMQP unavailable (%v), events disabled", err)
		return events.NoopPublisher{}
	}

	log.Printf("Event publisher: amqp exchange %s", cfg.AMQPExchange)
	return p
}
