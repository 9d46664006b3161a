package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/barber"
	barberHttp "github.com/Breyner794/barber-shop/internal/barber/http"
	"github.com/Breyner794/barber-shop/internal/booking"
	bookingHttp "github.com/Breyner794/barber-shop/internal/booking/http"
	"github.com/Breyner794/barber-shop/internal/file"
	fileHttp "github.com/Breyner794/barber-shop/internal/file/http"
	"github.com/Breyner794/barber-shop/internal/metrics"
	"github.com/Breyner794/barber-shop/internal/offering"
	offeringHttp "github.com/Breyner794/barber-shop/internal/offering/http"
	"github.com/Breyner794/barber-shop/internal/site"
	siteHttp "github.com/Breyner794/barber-shop/internal/site/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	SiteService     site.Service
	BarberService   barber.Service
	OfferingService offering.Service
	FileService     file.Service
	BookingService  booking.Service

	Metrics *metrics.Metrics // nil disables /metrics
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Metrics) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // frontend dev server
			"http://localhost:5173",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	siteHandler := siteHttp.NewHandler(cfg.SiteService)
	barberHandler := barberHttp.NewHandler(cfg.BarberService, fileHandler)
	offeringHandler := offeringHttp.NewHandler(cfg.OfferingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		fileHttp.RegisterRoutes(v1, fileHandler)
		siteHttp.RegisterRoutes(v1, siteHandler)
		barberHttp.RegisterRoutes(v1, barberHandler)
		offeringHttp.RegisterRoutes(v1, offeringHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}
