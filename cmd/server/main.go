package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"eventtix/config"
	"eventtix/internal/adapters/auth"
	"eventtix/internal/adapters/email"
	httpdelivery "eventtix/internal/delivery/http"
	"eventtix/internal/delivery/http/controllers"
	"eventtix/internal/delivery/http/middleware"
	"eventtix/internal/delivery/http/views"
	"eventtix/internal/repository/postgres"
	"eventtix/internal/services"
)

// @title Eventtix Admin API
// @version 1.0
// @description Staff-only CRUD API over events and tickets. The public site is served as HTML.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	tokens := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(10)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, ticketRepo)
	bookingService := services.NewBookingService(eventRepo, ticketRepo, emailService, logger)
	ticketService := services.NewTicketService(eventRepo, ticketRepo)
	userService := services.NewUserService(userRepo, hasher, tokens, cfg.JWTExpiry)

	// Delivery
	renderer, err := views.NewRenderer(logger)
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}
	eventsController := controllers.NewEventsController(logger, eventService, bookingService, renderer)
	authController := controllers.NewAuthController(logger, userService, renderer, cfg.JWTExpiry, cfg.CookieSecure)
	adminController := controllers.NewAdminController(logger, eventService, ticketService)

	mux := httpdelivery.NewRouter(eventsController, authController, adminController)

	var handler http.Handler = middleware.WithIdentity(tokens, mux)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
