package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cohubhq/space-booking/internal/config"
	"github.com/cohubhq/space-booking/internal/database"
	"github.com/cohubhq/space-booking/internal/handler"
	"github.com/cohubhq/space-booking/internal/middleware"
	"github.com/cohubhq/space-booking/internal/queue"
	"github.com/cohubhq/space-booking/internal/repository"
	"github.com/cohubhq/space-booking/internal/router"
	"github.com/cohubhq/space-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hubs := repository.NewHubRepo(db)
	bookings := repository.NewBookingRepo(db)
	events := repository.NewEventRepo(db)
	payments := repository.NewPaymentRepo(db)
	plans := repository.NewPlanRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	hubH := handler.NewHubHandler(hubs)
	bookingH := handler.NewBookingHandler(bookings, hubs, service.NewPublisher(""))
	eventH := handler.NewEventHandler(events)
	paymentH := handler.NewPaymentHandler(payments)
	planH := handler.NewPlanHandler(plans)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: when unreachable, caching and rate limiting
	// are simply disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limit disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, hubH, bookingH, eventH, planH)
	router.RegisterBooking(e, bookingH, eventH, paymentH, cfg.JWTSecret)
	router.RegisterPartner(e, hubH, eventH, cfg.JWTSecret)

	// Confirmation consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
