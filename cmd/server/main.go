package main // Entry point package

import (
	"context" // root context for background workers
	"log"     // Logging library

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/digitalbooking/campsite-booking/internal/config"
	"github.com/digitalbooking/campsite-booking/internal/database"
	"github.com/digitalbooking/campsite-booking/internal/gateway"
	"github.com/digitalbooking/campsite-booking/internal/handler"
	"github.com/digitalbooking/campsite-booking/internal/middleware"
	"github.com/digitalbooking/campsite-booking/internal/queue"
	"github.com/digitalbooking/campsite-booking/internal/repository"
	"github.com/digitalbooking/campsite-booking/internal/router"
	"github.com/digitalbooking/campsite-booking/internal/sweeper"
)

func main() {
	// Load a .env file when present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the rate limiter and the response cache.  Both degrade
	// to pass-through middleware when the client is nil.
	rdb := config.NewRedisClient()

	listingRepo := repository.NewListingRepo(db)
	userRepo := repository.NewUserRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	occupancyRepo := repository.NewOccupancyRepo(db)
	paymentOrderRepo := repository.NewPaymentOrderRepo(db)

	payments := gateway.NewHTTPPaymentClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)

	reservations := handler.NewReservationHandler(listingRepo, userRepo, reservationRepo, occupancyRepo, paymentOrderRepo)
	paymentOrders := handler.NewPaymentHandler(reservationRepo, paymentOrderRepo, payments)

	e := echo.New()
	router.RegisterRoutes(e)
	readGuard := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}
	router.RegisterReservations(e, reservations, paymentOrders, cfg.JWTSecret, readGuard...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drop occupancy ledger rows older than the retention horizon.
	sw := sweeper.New(occupancyRepo, cfg.RetentionDays, cfg.SweepInterval)
	go sw.Run(ctx)

	// Consume reservation.paid events for the booking log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
