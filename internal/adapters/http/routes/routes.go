package routes

import (
	"time"

	"borrowdesk/internal/adapters/http/handlers"
	"borrowdesk/internal/adapters/http/middleware"
	"borrowdesk/internal/adapters/persistence/repositories"
	"borrowdesk/internal/config"
	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/clock"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	currencyRepo := repositories.NewCurrencyRepository(db)
	borrowRepo := repositories.NewBorrowRepository(db)
	chargeRepo := repositories.NewPendingChargeRepository(db)
	entryRepo := repositories.NewInterestEntryRepository(db)
	repaymentRepo := repositories.NewRepaymentRepository(db)

	// Initialize services
	clk := clock.System()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	borrowService := services.NewBorrowService(borrowRepo, userRepo, currencyRepo)
	interestService := services.NewInterestService(txManager, borrowRepo, chargeRepo, entryRepo, clk)
	repaymentService := services.NewRepaymentService(txManager, borrowRepo, chargeRepo, entryRepo, repaymentRepo, clk)
	reportService := services.NewReportService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	currencyHandler := handlers.NewCurrencyHandler(currencyRepo)
	borrowHandler := handlers.NewBorrowHandler(borrowService)
	interestHandler := handlers.NewInterestHandler(interestService)
	repaymentHandler := handlers.NewRepaymentHandler(repaymentService)
	reportHandler := handlers.NewReportHandler(reportService)
	dashboardHandler := handlers.NewDashboardHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, currencyHandler,
		borrowHandler, interestHandler, repaymentHandler, reportHandler,
		dashboardHandler, rdb, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	currencyHandler *handlers.CurrencyHandler,
	borrowHandler *handlers.BorrowHandler,
	interestHandler *handlers.InterestHandler,
	repaymentHandler *handlers.RepaymentHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	rdb *redis.Client,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Master routes (Authenticated; mutations Admin only)
	masterRoutes := router.Group("/master")
	masterRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMasterRoutes(masterRoutes, currencyHandler)

	// Borrow routes (Authenticated; mutations Admin only)
	borrowRoutes := router.Group("/borrows")
	borrowRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBorrowRoutes(borrowRoutes, borrowHandler, interestHandler, repaymentHandler)

	// Interest routes (Admin only)
	interestRoutes := router.Group("/interest")
	interestRoutes.Use(middleware.AuthMiddleware(cfg))
	setupInterestRoutes(interestRoutes, interestHandler)

	// Report routes (Admin only, cached)
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.AdminOnly())
	reportRoutes.Use(middleware.ResponseCache(rdb, 5*time.Minute))
	setupReportRoutes(reportRoutes, reportHandler)

	// Dashboard routes (Admin only, cached)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Use(middleware.ResponseCache(rdb, 1*time.Minute))
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupMasterRoutes configures master data routes
func setupMasterRoutes(router fiber.Router, handler *handlers.CurrencyHandler) {
	// Reads are cacheable master data
	router.Get("/currencies", middleware.MasterDataCache(), handler.ListCurrencies)
	router.Get("/currencies/:id", middleware.MasterDataCache(), handler.GetCurrency)

	// Mutations are Admin only
	router.Post("/currencies", middleware.AdminOnly(), handler.CreateCurrency)
	router.Put("/currencies/:id", middleware.AdminOnly(), handler.UpdateCurrency)
	router.Delete("/currencies/:id", middleware.AdminOnly(), handler.DeleteCurrency)
}

// setupBorrowRoutes configures borrow ledger routes
func setupBorrowRoutes(
	router fiber.Router,
	borrowHandler *handlers.BorrowHandler,
	interestHandler *handlers.InterestHandler,
	repaymentHandler *handlers.RepaymentHandler,
) {
	// Users can view their own borrows
	router.Get("/my", borrowHandler.MyBorrows)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", borrowHandler.ListBorrows)
	adminRoutes.Get("/repayable", borrowHandler.ListRepayable)
	adminRoutes.Post("/", borrowHandler.CreateBorrow)
	adminRoutes.Get("/:id", borrowHandler.GetBorrow)
	adminRoutes.Put("/:id", borrowHandler.UpdateBorrow)
	adminRoutes.Delete("/:id", borrowHandler.DeleteBorrow)

	// Interest on a borrow
	adminRoutes.Post("/:id/charge", interestHandler.ComputeCharge)
	adminRoutes.Get("/:id/charge", interestHandler.GetCharge)
	adminRoutes.Get("/:id/interest", interestHandler.History)
	adminRoutes.Post("/:id/estimate", interestHandler.EstimateForBorrow)

	// Repayments on a borrow
	adminRoutes.Post("/:id/repayments", repaymentHandler.ApplyRepayment)
	adminRoutes.Get("/:id/repayments", repaymentHandler.ListRepayments)
}

// setupInterestRoutes configures interest routes (Admin only)
func setupInterestRoutes(router fiber.Router, handler *handlers.InterestHandler) {
	router.Post("/estimate", handler.Estimate)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/charges", handler.ListCharges)
	adminRoutes.Post("/charges/:id/settle", handler.SettleCharge)
}

// setupReportRoutes configures report routes (Admin only)
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/interest", handler.InterestReport)
	router.Get("/interest/export", handler.ExportInterestReport)
	router.Get("/repayments", handler.RepaymentReport)
	router.Get("/repayments/export", handler.ExportRepaymentReport)
	router.Get("/profit", handler.ProfitSeries)
}
