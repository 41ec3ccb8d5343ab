// Seeds a local environment with demo users, hotels and rooms. Hotels are
// created concurrently behind a weighted semaphore so the seeder does not
// overwhelm a small dev database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/authjwt"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

type seedRoom struct {
	title    string
	price    float64
	capacity int
}

type seedHotel struct {
	name    string
	address string
	rooms   []seedRoom
}

var demoHotels = []seedHotel{
	{"Harbour Light", "12 Quay Street, Bergen", []seedRoom{
		{"Standard Double", 89, 2}, {"Harbour View Suite", 189, 4}, {"Single Loft", 59, 1},
	}},
	{"Pinewood Lodge", "4 Forest Road, Inverness", []seedRoom{
		{"Cabin Twin", 72, 2}, {"Family Cabin", 140, 5},
	}},
	{"Casa del Sol", "88 Avenida Mar, Valencia", []seedRoom{
		{"Patio Double", 95, 2}, {"Rooftop Studio", 120, 2}, {"Garden Triple", 110, 3},
	}},
	{"The Ironworks", "3 Foundry Lane, Sheffield", []seedRoom{
		{"Mezzanine King", 105, 2}, {"Warehouse Suite", 160, 4},
	}},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Int("hotels", len(demoHotels)).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	auth, err := authjwt.New(cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("auth provider init failed")
	}

	authSvc := app.NewAuthService(repo.Users, auth, nil)
	hotelSvc := app.NewHotelService(repo.Hotels, repo.Bookings, cache, cfg.CacheTTL, nil)
	roomSvc := app.NewRoomService(repo.Rooms, repo.Hotels, repo.Bookings, cache, cfg.CacheTTL, nil)

	owner := seedUser(ctx, authSvc, repo.Users, "owner@staybook.local", "ownerpass123", "owner")
	seedUser(ctx, authSvc, repo.Users, "admin@staybook.local", "adminpass123", "admin")
	seedUser(ctx, authSvc, repo.Users, "guest@staybook.local", "guestpass123", "user")

	principal := app.Principal{ID: owner.ID, Role: owner.Role}
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, sh := range demoHotels {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sh seedHotel) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := hotelSvc.Create(ctx, principal, app.HotelCreate{Name: sh.name, Address: sh.address})
			if err != nil {
				log.Warn().Str("hotel", sh.name).Err(err).Msg("seed hotel failed")
				return
			}
			for _, sr := range sh.rooms {
				desc := fmt.Sprintf("%s at %s", sr.title, sh.name)
				_, err := roomSvc.Create(ctx, principal, h.ID, app.RoomCreate{
					Title: sr.title, Description: &desc, PricePerNight: sr.price, Capacity: sr.capacity,
				})
				if err != nil {
					log.Warn().Str("hotel", sh.name).Str("room", sr.title).Err(err).Msg("seed room failed")
				}
			}
			log.Info().Str("hotel", sh.name).Int("rooms", len(sh.rooms)).Msg("seeded")
		}(sh)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

// seedUser registers the demo account, or fetches it when a previous run
// already created it.
func seedUser(ctx context.Context, auth *app.AuthService, users domain.UserRepository, email, password, role string) domain.User {
	u, err := auth.Register(ctx, email, password, role)
	if err == nil {
		log.Info().Str("email", email).Str("role", role).Msg("user created")
		return u
	}
	if errors.Is(err, domain.ErrEmailTaken) {
		u, err = users.GetByEmail(ctx, email)
		if err == nil {
			return u
		}
	}
	log.Fatal().Str("email", email).Err(err).Msg("seed user failed")
	return domain.User{}
}
