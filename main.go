package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/bharatbus/bharatbus-backend/database"
	"github.com/bharatbus/bharatbus-backend/internal/cache"
	"github.com/bharatbus/bharatbus-backend/internal/config"
	"github.com/bharatbus/bharatbus-backend/internal/jobs"
	"github.com/bharatbus/bharatbus-backend/internal/models"
	"github.com/bharatbus/bharatbus-backend/internal/routes"
	"github.com/bharatbus/bharatbus-backend/internal/services"
	"github.com/bharatbus/bharatbus-backend/internal/storage"
	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

func main() {
	cfg := config.Load()

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.Agent{},
			&models.AgentDocument{},
			&models.Bus{},
			&models.Route{},
			&models.Booking{},
			&models.Notification{},
			&models.Session{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// OTP cache: Redis when configured, process-local otherwise
	var otpCache cache.Store
	var memCache *cache.MemoryStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		otpCache = cache.NewRedisStore(client)
		log.Printf("✅ Using Redis OTP cache at %s", cfg.RedisAddr)
	} else {
		memCache = cache.NewMemoryStore()
		otpCache = memCache
		log.Println("⚠️  Using in-memory OTP cache (single instance only)")
	}

	twilioService := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	if twilioService.Enabled() {
		log.Println("✅ Twilio SMS delivery enabled")
	} else {
		log.Println("⚠️  SMS delivery disabled, messages will be logged only")
	}

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.RefreshSecret, cfg.JWTExpiry, cfg.RefreshExpiry)
	otpService := services.NewOTPService(otpCache, twilioService, services.OTPConfig{
		TTL:         cfg.OTPExpiry,
		MaxAttempts: cfg.MaxOTPAttempts,
		EchoCode:    !cfg.IsProduction(),
	})
	authService := services.NewAuthService(store, tokenService)
	notificationService := services.NewNotificationService(store, twilioService)

	sweeper := jobs.NewSweeper(store, notificationService, memCache, time.Minute)
	sweeper.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "BharatBus Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return utils.SendError(c, code, "Internal server error", "INTERNAL_ERROR", err.Error())
		},
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, device-id, device-type, device-model, os, browser",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Store:         store,
		OTP:           otpService,
		Auth:          authService,
		Tokens:        tokenService,
		Notifications: notificationService,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")
		sweeper.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 BharatBus backend listening on port %s (%s)", cfg.Port, cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
