package server

import (
	"log"
	"time"

	"github.com/givebridge/givebridge/internal/config"
	"github.com/givebridge/givebridge/internal/domain"
	"github.com/givebridge/givebridge/internal/handler"
	"github.com/givebridge/givebridge/internal/middleware"
	"github.com/givebridge/givebridge/internal/repository"
	"github.com/givebridge/givebridge/internal/service"
	"github.com/givebridge/givebridge/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const idempotencyTTL = 10 * time.Minute

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client // optional, nil disables caching and idempotency
	Files       domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	mongoRepo := repository.NewMongoDonationRepository(deps.MongoDB)

	var donationRepo domain.DonationRepository = mongoRepo
	if deps.RedisClient != nil {
		cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
		donationRepo = repository.NewCachedDonationRepository(mongoRepo, cacheRepo)
	}

	// Initialize services
	donationService := service.NewDonationService(donationRepo, deps.Files)

	// Initialize handlers
	donationHandler := handler.NewDonationHandler(donationService, deps.Config.Server.MaxUploadSizeMB)
	uploadHandler := handler.NewUploadHandler(deps.Files)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "GiveBridge Donations API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}
	if deps.RedisClient != nil {
		app.Use(middleware.Idempotency(deps.RedisClient, idempotencyTTL))
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "givebridge-donations",
		})
	})

	// Donation routes. "/donations/all" is registered before "/donations/:id"
	// so the literal segment wins.
	app.Post("/donations", donationHandler.Create)
	app.Get("/donations", donationHandler.ListAvailable)
	app.Get("/donations/all", donationHandler.ListAll)
	app.Get("/donations/:id", donationHandler.Get)
	app.Put("/donations/:id", donationHandler.ToggleAvailability)
	app.Delete("/donations/:id", donationHandler.Delete)

	// Stored images
	app.Get("/api/uploads/:filename", uploadHandler.Serve)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
