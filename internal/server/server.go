// Package server contains the HTTP handlers and routing for the directory API.
package server

import (
	"context"
	"log"
	"time"

	"truckstop/internal/cache"
	"truckstop/internal/config"
	"truckstop/internal/database"
	"truckstop/internal/middleware"
	"truckstop/internal/models"
	"truckstop/internal/repository"
	"truckstop/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	userRepo    repository.UserRepository
	truckRepo   repository.FoodTruckRepository
	profileRepo repository.ProfileRepository
	regSvc      *service.RegistrationService
	truckSvc    *service.TruckService
	profileSvc  *service.ProfileService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	userRepo := repository.NewUserRepository(db)
	truckRepo := repository.NewFoodTruckRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    userRepo,
		truckRepo:   truckRepo,
		profileRepo: profileRepo,
		regSvc:      service.NewRegistrationService(userRepo, truckRepo),
		truckSvc:    service.NewTruckService(truckRepo, userRepo),
		profileSvc:  service.NewProfileService(userRepo, profileRepo),
	}

	middleware.InitMiddleware(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	prom := fiberprometheus.New("truckstop")
	prom.RegisterAt(app, "/metrics/prometheus")
	app.Use(prom.Middleware)

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Operational endpoints
	app.Get("/healthz", s.HealthCheck)
	app.Get("/metrics", monitor.New(monitor.Config{Title: "Truckstop Metrics"}))

	// Public listing pages; identity is attached when present but never required.
	public := app.Group("", middleware.OptionalAuth)
	public.Get("/", s.Home)
	public.Get("/directory/", s.Directory)
	public.Get("/trucks/:city/", s.TrucksByCity)

	// Auth flows
	app.Get("/login/", s.LoginForm)
	app.Post("/login/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout/", s.Logout)
	app.Get("/register/", s.RegisterForm)
	app.Post("/register/", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.RegisterConsumer)
	app.Get("/register/food-truck-owner/", s.RegisterOwnerForm)
	app.Post("/register/food-truck-owner/", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.RegisterOwner)

	// Truck submission: the form is public, the insert requires an owner.
	app.Get("/submit/", s.SubmitForm)
	app.Post("/submit/", middleware.AuthRequired, s.SubmitTruck)

	// Profile and admin operations
	app.Get("/profile/", middleware.AuthRequired, s.Profile)
	app.Put("/profile/owner/", middleware.AuthRequired, s.UpdateOwnerProfile)
	app.Put("/profile/preferences/", middleware.AuthRequired, s.UpdatePreferences)
	app.Post("/admin/owners/:id/verify/", middleware.AuthRequired, s.VerifyOwner)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// currentUserID returns the authenticated user ID placed by the auth middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok
}

// redirect answers browser-style flows with 303 + Location while keeping a
// JSON body for API clients.
func redirect(c *fiber.Ctx, target string, body fiber.Map) error {
	c.Set("Location", target)
	if body == nil {
		body = fiber.Map{}
	}
	body["redirect"] = target
	return c.Status(fiber.StatusSeeOther).JSON(body)
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Food Truck Directory API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
