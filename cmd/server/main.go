package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cardroom/table-time/internal/config"
	"github.com/cardroom/table-time/internal/database"
	"github.com/cardroom/table-time/internal/handler"
	"github.com/cardroom/table-time/internal/middleware"
	"github.com/cardroom/table-time/internal/queue"
	"github.com/cardroom/table-time/internal/repository"
	"github.com/cardroom/table-time/internal/router"
	"github.com/cardroom/table-time/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	clubs := repository.NewClubRepo(db)
	tables := repository.NewTableRepo(db)
	players := repository.NewPlayerRepo(db)
	seats := repository.NewSeatRepo(db)
	sessions := repository.NewSessionRepo(db)
	records := repository.NewTimeRecordRepo(db)
	waitQueue := repository.NewQueueRepo(db)
	limits := repository.NewLimitsRepo(db)

	// Services.
	opTimeout := time.Duration(cfg.SeatOpTimeout) * time.Second
	runner := service.SQLTxRunner{DB: db}
	ledger := service.NewTimeLedger(records, players, nil)
	seatSvc := service.NewSeatService(seats, players, sessions, ledger, runner, opTimeout, nil, queue.PublishSeatStatusChanged)
	sessSvc := service.NewSessionService(sessions, seats, ledger, runner, opTimeout, nil, queue.PublishSessionEnded)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	seatH := handler.NewSeatHandler(seatSvc, seats)
	sessH := handler.NewSessionHandler(sessSvc, sessions)
	ownerH := handler.NewOwnerHandler(clubs, tables, players, seats, waitQueue, limits, seatSvc)
	adminH := handler.NewAdminHandler(users, clubs, limits)

	e := echo.New()

	// Redis-backed rate limiting and response caching. A nil client (Redis
	// down or unconfigured) disables both and the API serves uncached.
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	} else {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterDealer(e, seatH, sessH, cfg.JWTSecret)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Seat event consumer runs for the lifetime of the process and handles
	// broker reconnects itself.
	go func() {
		if err := queue.StartSeatConsumer(); err != nil {
			log.Printf("seat-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
