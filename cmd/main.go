package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"eventhub/internal/dto"
	"eventhub/internal/handler"
	"eventhub/internal/middleware"
	"eventhub/internal/payment"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/config"
	"eventhub/pkg/database"
	"eventhub/pkg/jwtutil"
	"eventhub/pkg/logger"
	"eventhub/pkg/rabbitmq"
	"eventhub/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("eventhub")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting event platform service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Payment gateway
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	// Message broker is optional; without a URL lifecycle events are dropped
	var publisher service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
		log.Info("RabbitMQ publisher connected")
	} else {
		log.Warn("RABBITMQ_URL not set, lifecycle events disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Services
	tenantSvc := service.NewTenantService(tenantRepo, userRepo, gateway)
	eventSvc := service.NewEventService(eventRepo, ticketRepo, tenantRepo)
	registrationSvc := service.NewRegistrationService(
		registrationRepo, ticketRepo, eventRepo, checkInRepo, gateway, publisher)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, tenantSvc, jwtUtil)
	eventHandler := handler.NewEventHandler(eventSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	webhookHandler := handler.NewWebhookHandler(registrationSvc, cfg.Stripe.WebhookSecret)
	adminHandler := handler.NewAdminHandler(tenantSvc, analyticsRepo, billingRepo)
	tenantHandler := handler.NewTenantHandler(tenantSvc, analyticsRepo)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo, eventRepo)
	healthHandler := handler.NewHealthHandler(db, cfg.ServiceName)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = dto.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(cfg.Server.Env)

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.CORS(cfg.CORS.Origins))

	// Public infrastructure routes
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", handler.Metrics)

	// Webhooks live outside /api: no auth, signature-verified instead
	webhookHandler.RegisterRoutes(e)

	// Shared middleware instances for route registration
	authn := middleware.Authenticate(jwtUtil, userRepo)
	optionalAuthn := middleware.OptionalAuthenticate(jwtUtil, userRepo)
	staff := middleware.RequireStaff()
	tenantAdmin := middleware.RequireTenantAdmin()
	superAdmin := middleware.RequireSuperAdmin()

	api := e.Group("/api")
	authHandler.RegisterRoutes(api, authn)
	eventHandler.RegisterRoutes(api, authn, staff)
	registrationHandler.RegisterRoutes(api, authn, optionalAuthn, staff)
	feedbackHandler.RegisterRoutes(api, authn, optionalAuthn, staff)
	tenantHandler.RegisterRoutes(api, authn, tenantAdmin, staff)
	adminHandler.RegisterRoutes(api, authn, superAdmin)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
