package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/zombieland/zombieland-api/internal/auth"
	"github.com/zombieland/zombieland-api/internal/config"
	"github.com/zombieland/zombieland-api/internal/database"
	"github.com/zombieland/zombieland-api/internal/handler"
	"github.com/zombieland/zombieland-api/internal/middleware"
	"github.com/zombieland/zombieland-api/internal/queue"
	"github.com/zombieland/zombieland-api/internal/repository"
	"github.com/zombieland/zombieland-api/internal/router"
)

func main() {
	// Local setups keep their variables in a .env file; in deployment the
	// environment is already populated and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the API runs with no response cache
	// and no rate limiting, which is fine for development.
	rdb := config.NewRedisClient()

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	priceRepo := repository.NewPriceRepo(db)
	visitDateRepo := repository.NewVisitDateRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	conversationRepo := repository.NewConversationRepo(db)

	// The resolver turns token claims into principals by re-reading the
	// user row on every request, so role changes and deactivations take
	// effect immediately.
	resolver := auth.NewResolver(userRepo)
	authmw := middleware.JWTAuth(cfg.JWTSecret, resolver)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	reservationHandler := handler.NewReservationHandler(reservationRepo, visitDateRepo, priceRepo)
	adminReservationHandler := handler.NewAdminReservationHandler(reservationRepo)
	priceHandler := handler.NewPriceHandler(priceRepo)
	visitDateHandler := handler.NewVisitDateHandler(visitDateRepo, reservationRepo)
	activityHandler := handler.NewActivityHandler(activityRepo)
	conversationHandler := handler.NewConversationHandler(conversationRepo)
	adminUserHandler := handler.NewAdminUserHandler(userRepo, tokenRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	var cachemw echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cachemw = middleware.NewRedisCache(cacheCfg, rdb)
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, authmw)
	router.RegisterPublic(e, priceHandler, visitDateHandler, activityHandler, cachemw)
	router.RegisterClient(e, reservationHandler, conversationHandler, authmw)
	router.RegisterAdmin(e, adminReservationHandler, adminUserHandler, priceHandler, visitDateHandler, activityHandler, conversationHandler, authmw)

	// The event consumer keeps its own connection and reconnect loop; a
	// broker outage never takes the API down with it.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
