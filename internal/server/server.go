package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/vivotour/vivotour/internal/config"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/handler"
	"github.com/vivotour/vivotour/internal/middleware"
	"github.com/vivotour/vivotour/internal/repository"
	"github.com/vivotour/vivotour/internal/service"
	"github.com/vivotour/vivotour/internal/telemetry"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	mongoPlanRepo := repository.NewMongoPlanRepository(deps.MongoDB)
	planRepo := repository.NewCachedPlanRepository(mongoPlanRepo, cacheRepo)
	accommodationRepo := repository.NewMongoAccommodationRepository(deps.MongoDB)
	blackoutRepo := repository.NewMongoBlackoutRepository(deps.MongoDB)
	reservationRepo := repository.NewMongoReservationRepository(deps.MongoDB)
	extraRepo := repository.NewMongoExtraServiceRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	refreshTokenRepo := repository.NewMongoRefreshTokenRepository(deps.MongoDB)
	galleryRepo := repository.NewMongoGalleryRepository(deps.MongoDB)
	commentRepo := repository.NewMongoCommentRepository(deps.MongoDB)

	fileRepo, err := repository.NewS3FileRepository(context.Background(), deps.Config.S3)
	if err != nil {
		log.Printf("Warning: Failed to initialize S3 repository: %v", err)
	}

	// Initialize services
	tokenService := service.NewTokenService(deps.Config.JWT, refreshTokenRepo, userRepo)
	authService := service.NewAuthService(userRepo, tokenService)
	availabilityChecker := service.NewAvailabilityChecker(planRepo, reservationRepo, blackoutRepo)
	bookingService := service.NewBookingService(planRepo, extraRepo, reservationRepo, availabilityChecker)
	paymentProvider := service.NewPaymentProvider(deps.Config.Payment)
	dashboardService := service.NewDashboardService(planRepo, reservationRepo, commentRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, tokenService, userRepo)
	planHandler := handler.NewPlanHandler(planRepo, accommodationRepo, availabilityChecker, cacheRepo)
	bookingHandler := handler.NewBookingHandler(bookingService, cacheRepo)
	blackoutHandler := handler.NewBlackoutHandler(blackoutRepo, planRepo, cacheRepo)
	extraHandler := handler.NewExtraServiceHandler(extraRepo)
	reservationHandler := handler.NewReservationHandler(reservationRepo, cacheRepo)
	galleryHandler := handler.NewGalleryHandler(galleryRepo, fileRepo)
	commentHandler := handler.NewCommentHandler(commentRepo)
	paymentHandler := handler.NewPaymentHandler(reservationRepo, paymentProvider, cacheRepo)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "VivoTour API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "vivotour",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Auth endpoints (public)
	auth := v1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	// Public catalogue
	v1.Get("/plans", planHandler.ListPlans)
	v1.Get("/plans/:id", planHandler.GetPlan)
	v1.Get("/plans/:id/availability", planHandler.GetAvailability)
	v1.Get("/extras", extraHandler.ListActive)
	v1.Get("/gallery", galleryHandler.List)
	v1.Get("/comments", commentHandler.ListApproved)
	v1.Post("/comments", commentHandler.Create)

	// Booking: quote is public, booking itself is idempotent on retries
	bookings := v1.Group("/bookings")
	bookings.Post("/quote", bookingHandler.Quote)
	bookings.Post("/",
		middleware.IdempotencyMiddleware(deps.RedisClient, 24*time.Hour),
		bookingHandler.Book)

	// Payments: checkout is public (reference acts as capability),
	// the webhook authenticates via its signature
	payments := v1.Group("/payments")
	payments.Post("/checkout", paymentHandler.Checkout)
	payments.Post("/webhook/epayco", paymentHandler.EpaycoWebhook)

	// ===========================================
	// ADMIN API - /v1/admin/* (requires 'admin' role)
	// ===========================================
	admin := v1.Group("/admin")
	admin.Use(middleware.VerifyAccessToken(deps.Config.JWT.Secret))
	admin.Use(middleware.AuthorizeRole(domain.RoleAdmin))

	adminPlans := admin.Group("/plans")
	adminPlans.Get("/", planHandler.ListAllPlans)
	adminPlans.Post("/", planHandler.CreatePlan)
	adminPlans.Put("/:id", planHandler.UpdatePlan)
	adminPlans.Delete("/:id", planHandler.DeletePlan)
	adminPlans.Get("/:id/blackouts", blackoutHandler.ListByPlan)
	adminPlans.Post("/:id/blackouts", blackoutHandler.Create)

	admin.Delete("/blackouts/:id", blackoutHandler.Delete)

	adminAccommodations := admin.Group("/accommodations")
	adminAccommodations.Get("/", planHandler.ListAccommodations)
	adminAccommodations.Post("/", planHandler.CreateAccommodation)
	adminAccommodations.Put("/:id", planHandler.UpdateAccommodation)
	adminAccommodations.Delete("/:id", planHandler.DeleteAccommodation)

	adminExtras := admin.Group("/extras")
	adminExtras.Post("/", extraHandler.Create)
	adminExtras.Put("/:id", extraHandler.Update)
	adminExtras.Delete("/:id", extraHandler.Delete)

	adminReservations := admin.Group("/reservations")
	adminReservations.Get("/", reservationHandler.List)
	adminReservations.Get("/:id", reservationHandler.Get)
	adminReservations.Post("/:id/cancel", reservationHandler.Cancel)
	adminReservations.Delete("/:id", reservationHandler.Delete)

	adminGallery := admin.Group("/gallery")
	adminGallery.Post("/", galleryHandler.Upload)
	adminGallery.Delete("/:id", galleryHandler.Delete)

	adminComments := admin.Group("/comments")
	adminComments.Get("/", commentHandler.ListAll)
	adminComments.Patch("/:id", commentHandler.Moderate)
	adminComments.Delete("/:id", commentHandler.Delete)

	adminUsers := admin.Group("/users")
	adminUsers.Get("/", authHandler.ListUsers)
	adminUsers.Post("/", authHandler.CreateUser)
	adminUsers.Delete("/:id", authHandler.DeleteUser)

	admin.Get("/dashboard/summary", dashboardHandler.GetSummary)

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
