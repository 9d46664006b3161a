package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Breyner794/barber-shop/internal/api"
	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/booking"
	"github.com/Breyner794/barber-shop/internal/catalog"
	"github.com/Breyner794/barber-shop/internal/file"
	"github.com/Breyner794/barber-shop/internal/metrics"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/pkg/storage"
	"github.com/Breyner794/barber-shop/internal/reservation"
	"github.com/Breyner794/barber-shop/internal/site"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	DBPool          *pgxpool.Pool // nil selects the in-memory stores
	Redis           *redis.Client // nil disables the catalog cache
	CatalogCacheTTL time.Duration
	Storage         storage.Storage

	SlotGranularity time.Duration
	DefaultLocation *time.Location
	WriteTimeout    time.Duration

	Clock   clock.Clock
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router  *gin.Engine
	Booking booking.Service
	Ledger  *reservation.Ledger
}

type repositories struct {
	sites        site.Repository
	barbers      barber.Repository
	offerings    offering.Repository
	files        file.Repository
	reservations reservation.Repository
}

func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		return repositories{
			sites:        site.NewMemoryRepository(),
			barbers:      barber.NewMemoryRepository(),
			offerings:    offering.NewMemoryRepository(),
			files:        file.NewMemoryRepository(),
			reservations: reservation.NewMemoryRepository(),
		}
	}
	return repositories{
		sites:        site.NewPgxRepository(pool),
		barbers:      barber.NewPgxRepository(pool),
		offerings:    offering.NewPgxRepository(pool),
		files:        file.NewPgxRepository(pool),
		reservations: reservation.NewPgxRepository(pool),
	}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	repos := newRepositories(cfg.DBPool)

	// Catalog modules
	siteService := site.NewService(repos.sites)
	barberService := barber.NewService(repos.barbers, siteService)
	offeringService := offering.NewService(repos.offerings)

	// The ledger checks bookings against the source of truth. Only
	// availability reads go through the cache.
	store := catalog.NewStore(siteService, barberService, offeringService)
	readStore := store
	if cfg.Redis != nil {
		cached := catalog.NewCachedStore(store, cfg.Redis, cfg.CatalogCacheTTL)
		readStore = cached

		// Admin writes evict the cached entries they touch
		siteService = catalog.WithSiteInvalidation(siteService, cached)
		barberService = catalog.WithBarberInvalidation(barberService, cached)
		offeringService = catalog.WithOfferingInvalidation(offeringService, cached)
	}

	// File module
	fileService := file.NewService(repos.files, cfg.Storage)

	// Ledger
	var observer reservation.Observer
	if cfg.Metrics != nil {
		observer = cfg.Metrics.Ledger()
	}
	ledger := reservation.NewLedger(repos.reservations, store, reservation.Options{
		Clock:           cfg.Clock,
		DefaultLocation: cfg.DefaultLocation,
		WriteTimeout:    cfg.WriteTimeout,
		Observer:        observer,
		Logger:          cfg.Logger,
	})

	// Availability and booking
	engine := availability.NewEngine(readStore, ledger, availability.Config{
		Granularity:     cfg.SlotGranularity,
		DefaultLocation: cfg.DefaultLocation,
	})
	bookingService := booking.NewService(engine, ledger, cfg.Clock)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		SiteService:     siteService,
		BarberService:   barberService,
		OfferingService: offeringService,
		FileService:     fileService,
		BookingService:  bookingService,
		Metrics:         cfg.Metrics,
	})

	return &Container{
		Router:  router,
		Booking: bookingService,
		Ledger:  ledger,
	}
}
