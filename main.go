package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"leadhub/config"
	"leadhub/middleware"
	"leadhub/repository"
	"leadhub/routes"
	"leadhub/services"
	"leadhub/worker"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.AppConfig.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	// Error reporting is optional; enabled only when a DSN is configured
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			log.Warnf("Failed to initialize sentry: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Each service gets its own cache so invalidation patterns stay local
	leadsCache := services.NewCacheManager()
	messagesCache := services.NewCacheManager()

	leadsService := services.NewLeadsService(
		repository.NewLeadRepository(config.DB),
		leadsCache,
		log.WithField("component", "leads"),
	)
	messagesService := services.NewMessagesService(
		repository.NewMessageRepository(config.DB),
		messagesCache,
		log.WithField("component", "messages"),
	)
	productsService := services.NewProductsService(
		repository.NewProductRepository(config.DB),
		log.WithField("component", "products"),
	)

	// Start the cache janitor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	janitor := worker.NewCacheJanitor(
		[]*services.CacheManager{leadsCache, messagesCache},
		config.AppConfig.CacheSweepInterval,
		log.WithField("component", "janitor"),
	)
	go janitor.Start(ctx)

	// Create Fiber app
	app := fiber.New()
	app.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(app, routes.Deps{
		Leads:    leadsService,
		Messages: messagesService,
		Products: productsService,
	})

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	log.Infof("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
