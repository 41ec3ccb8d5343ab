package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/authjwt"
	server "staybook/internal/adapters/http_server"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	auth, err := authjwt.New(cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("auth provider init failed")
	}

	authSvc := app.NewAuthService(repo.Users, auth, nil)
	hotelSvc := app.NewHotelService(repo.Hotels, repo.Bookings, cache, cfg.CacheTTL, nil)
	roomSvc := app.NewRoomService(repo.Rooms, repo.Hotels, repo.Bookings, cache, cfg.CacheTTL, nil)
	bookingSvc := app.NewBookingService(repo.Rooms, repo.Bookings, repo.Bookings, nil)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:       authSvc,
		Hotels:     hotelSvc,
		Rooms:      roomSvc,
		Bookings:   bookingSvc,
		Tokens:     auth,
		LoginRPS:   cfg.LoginRPS,
		LoginBurst: cfg.LoginBurst,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
