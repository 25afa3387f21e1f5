package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"pawgather/config"
	"pawgather/internal/adapters/auth"
	"pawgather/internal/adapters/email"
	deliveryhttp "pawgather/internal/delivery/http"
	"pawgather/internal/delivery/http/controllers"
	"pawgather/internal/delivery/http/middleware"
	"pawgather/internal/repository/postgres"
	"pawgather/internal/services"
)

// @title Pawgather Event RSVP API
// @version 1.0
// @description RSVP and waiting-list capacity engine for Pawgather community events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	ledger := postgres.NewCapacityLedger(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	waitlistRepo := postgres.NewWaitlistRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Notifications
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	notifier := services.NewRSVPNotifier(mailer, email.NewTemplateRenderer())

	// Services
	rsvpService := services.NewRSVPService(eventRepo, ledger, registrationRepo, waitlistRepo, userRepo, notifier, logger)

	// HTTP
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	rsvpController := controllers.NewRSVPController(logger, rsvpService)
	waitlistController := controllers.NewWaitlistController(logger, rsvpService)
	eventController := controllers.NewEventController(logger, rsvpService)
	mux := deliveryhttp.NewRouter(verifier, rsvpController, waitlistController, eventController)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
