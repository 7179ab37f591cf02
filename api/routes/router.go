// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"airbook/docs"
	"airbook/internal/analytics"
	"airbook/internal/auth"
	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/notifications"
	"airbook/internal/seats"
	"airbook/internal/shared/config"
	"airbook/internal/shared/database"
	"airbook/internal/users"
	"airbook/pkg/cache"
	"airbook/pkg/logger"
	"airbook/pkg/token"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher *notifications.Publisher
	log       *logger.Logger

	tokens        *token.Manager
	flightService flights.Service
	userService   users.Service
	coordinator   *bookings.Coordinator
}

// NewRouter creates a new router instance. publisher may be nil, in which
// case no notifications are sent.
func NewRouter(cfg *config.Config, db *database.DB, publisher *notifications.Publisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       logger.OrDefault(log),
		tokens:    token.NewManager(cfg.JWT.Secret, cfg.JWT.JWTExpiresIn, cfg.JWT.RefreshExpiresIn),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupSwagger(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// users before auth, flights before bookings and seats
		r.setupUserRoutes(api)
		r.setupAuthRoutes(api)
		r.setupFlightRoutes(api)
		r.setupBookingRoutes(api)
		r.setupSeatRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "airbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "airbook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "operational",
			"api_version":  r.config.APIVersion,
			"lock_backend": r.config.Reservation.LockBackend,
			"kafka":        r.config.Kafka.Enabled,
			"timestamp":    time.Now(),
		})
	})
}

func (r *Router) setupSwagger(engine *gin.Engine) {
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	docs.SwaggerInfo.Version = r.config.APIVersion
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.PostgreSQL)
	r.userService = users.NewService(userRepo, r.log)
	if r.publisher != nil {
		r.userService.SetNotifier(r.publisher)
	}

	users.SetupUserRoutes(rg, users.NewController(r.userService), r.tokens)
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(users.NewRepository(r.db.PostgreSQL), r.tokens, r.log)
	auth.SetupAuthRoutes(rg, auth.NewController(authService), r.tokens)
}

func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	r.flightService = flights.NewService(flights.NewRepository(r.db.PostgreSQL), r.log)
	if r.db.Redis != nil {
		r.flightService.SetCacheService(cache.NewService(r.db.Redis))
	}

	flights.SetupFlightRoutes(rg, flights.NewController(r.flightService), r.tokens)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	r.coordinator = bookings.NewCoordinator(
		bookings.NewGormStore(r.db.PostgreSQL),
		r.flightService,
		r.newLocker(),
		r.config.Reservation.RetryConfig(),
		r.log,
	)
	if r.publisher != nil {
		r.coordinator.SetNotifier(r.publisher)
	}
	r.flightService.SetOccupancyInitializer(r.coordinator)

	bookings.SetupBookingRoutes(rg, bookings.NewController(r.coordinator), r.tokens)
}

func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatService := seats.NewService(r.flightService, r.coordinator)
	seats.SetupSeatRoutes(rg, seats.NewController(seatService), r.tokens)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsService := analytics.NewService(analytics.NewRepository(r.db.PostgreSQL), r.log)
	if r.db.Redis != nil {
		analyticsService.SetCacheService(cache.NewService(r.db.Redis))
	}
	analytics.SetupAnalyticsRoutes(rg, analytics.NewController(analyticsService), r.tokens)
}

// newLocker picks the per-flight lock backend from the reservation config.
func (r *Router) newLocker() bookings.Locker {
	if !r.config.Reservation.UsesRedisLock() || r.db.Redis == nil {
		r.log.Info("Using in-process flight locks")
		return bookings.NewLocalLocker()
	}

	locker := bookings.NewRedisLocker(r.db.Redis, r.config.Reservation.LockTTL, r.config.Reservation.LockWait, r.log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := locker.PreloadScripts(ctx); err != nil {
		r.log.Warn("Failed to preload lock scripts", "error", err.Error())
	} else {
		r.log.Info("Redis flight locks ready", "ttl", r.config.Reservation.LockTTL.String())
	}
	return locker
}
