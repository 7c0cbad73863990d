package routes

import (
	"smart-elib/internal/adapters/http/handlers"
	"smart-elib/internal/adapters/http/middleware"
	"smart-elib/internal/adapters/persistence/repositories"
	"smart-elib/internal/config"
	"smart-elib/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the
// report service so the scheduler can share it
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.ReportService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, loanRepo)
	bookService := services.NewBookService(bookRepo, loanRepo)
	loanService := services.NewLoanService(loanRepo, bookRepo, userRepo)
	reportService := services.NewReportService(loanRepo, bookRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	loanHandler := handlers.NewLoanHandler(loanService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, with stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Book catalog routes
	bookRoutes := apiV1.Group("/books")
	setupBookRoutes(bookRoutes, bookHandler, cfg)

	// Loan routes (authenticated)
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Use(middleware.NoCacheHeaders())
	setupLoanRoutes(loanRoutes, loanHandler)

	// Report routes (admin only)
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.AdminOnly())
	reportRoutes.Use(middleware.NoCacheHeaders())
	setupReportRoutes(reportRoutes, reportHandler)

	// User management routes (admin only)
	adminUserRoutes := apiV1.Group("/admin/users")
	adminUserRoutes.Use(middleware.AuthMiddleware(cfg))
	adminUserRoutes.Use(middleware.AdminOnly())
	setupAdminUserRoutes(adminUserRoutes, userHandler)

	return reportService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (5 req/min/IP)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupBookRoutes configures book catalog routes.
// Reads are public and cacheable; writes are admin only.
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, cfg *config.Config) {
	router.Get("/", middleware.CatalogCache(), handler.ListBooks)
	router.Get("/:id", middleware.CatalogCache(), handler.GetBook)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.CreateBook)
	adminRoutes.Put("/:id", handler.UpdateBook)
	adminRoutes.Delete("/:id", handler.DeleteBook)
}

// setupLoanRoutes configures loan lifecycle routes (authenticated)
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.IssueBook)
	router.Get("/my", handler.MyLoans)
	router.Get("/summary", handler.MySummary)
	router.Get("/:id", handler.GetLoan)
	router.Put("/:id/return", handler.ReturnBook)
}

// setupReportRoutes configures admin report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/overdue", handler.OverdueReport)
	router.Get("/issued-stats", handler.IssuedStats)
	router.Get("/most-issued-monthly", handler.MostIssuedMonthly)
	router.Get("/issue-history", handler.IssueHistory)

	// Maintenance jobs (3 req/min/IP)
	router.Put("/calculate-overdues", middleware.MaintenanceRateLimiter(), handler.CalculateOverdues)
	router.Put("/book-sync", middleware.MaintenanceRateLimiter(), handler.BookSync)
}

// setupAdminUserRoutes configures user management routes (admin only)
func setupAdminUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Delete("/:id", handler.DeleteUser)
	router.Put("/:id/promote", handler.PromoteUser)
}
