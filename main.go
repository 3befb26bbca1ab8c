package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campwild/cache"
	"campwild/config"
	"campwild/database"
	"campwild/geocode"
	"campwild/handlers"
	"campwild/imagehost"
	"campwild/jobs"
	"campwild/logger"
	"campwild/mail"
	"campwild/middleware"
	"campwild/repository"
	"campwild/routes"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	// Initialize Redis-backed cache
	listCache := cache.New(cfg.RedisURL)
	defer listCache.Close()

	// Adapters
	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderAPIKey)
	images, err := imagehost.New(context.Background(), imagehost.Options{
		Endpoint:  cfg.ImageHostEndpoint,
		Region:    cfg.ImageHostRegion,
		AccessKey: cfg.ImageHostAPIKey,
		SecretKey: cfg.ImageHostAPISecret,
	})
	if err != nil {
		logger.Fatal("image host setup failed", zap.Error(err))
	}

	// Repositories, session manager, handlers
	users := repository.NewUserRepository(db)
	campgrounds := repository.NewCampgroundRepository(db)
	comments := repository.NewCommentRepository(db)
	sessions := middleware.NewManager(users, campgrounds, comments)

	server := handlers.NewServer(handlers.Deps{
		Config:      cfg,
		Users:       users,
		Campgrounds: campgrounds,
		Comments:    comments,
		Geocoder:    geocoder,
		Images:      images,
		Cache:       listCache,
		Sessions:    sessions,
		Mailer:      mail.NewSMTPSender(cfg),
	})

	// Initialize Fiber app with server-side templates
	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		AppName: "CampWild",
		Views:   engine,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.MethodOverride)
	app.Use(sessions.LoadUser)

	// Setup routes
	routes.Setup(app, server, sessions)

	// Background jobs
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	go jobs.StartResetTokenCleanup(jobsCtx, users, time.Hour)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		stopJobs()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
