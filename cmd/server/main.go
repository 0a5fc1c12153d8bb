package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"borrowdesk/internal/adapters/http/middleware"
	"borrowdesk/internal/adapters/http/routes"
	"borrowdesk/internal/adapters/persistence/models"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/config"
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	_ "borrowdesk/docs" // Swagger docs
)

// @title BorrowDesk API
// @version 1.0
// @description Borrowing ledger API: borrows, interest accrual and settlement, repayments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@borrowdesk.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed master data
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed master data: %v", err)
	}

	// Connect to Redis (report cache); the app degrades gracefully without it
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Start cron service (daily charge refresh, token cleanup)
	txManager := repositories.NewTxManager(db)
	borrowRepo := repositories.NewBorrowRepository(db)
	chargeRepo := repositories.NewPendingChargeRepository(db)
	entryRepo := repositories.NewInterestEntryRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	interestService := services.NewInterestService(txManager, borrowRepo, chargeRepo, entryRepo, clock.System())

	cronService := services.NewCronService(interestService, refreshTokenRepo)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BorrowDesk API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, redis and cfg for dependency injection)
	routes.Setup(app, db, rdb, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
