package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"ensembleplanner/config"
	_ "ensembleplanner/docs"
	"ensembleplanner/internal/adapters/auth"
	"ensembleplanner/internal/adapters/email"
	httpdelivery "ensembleplanner/internal/delivery/http"
	"ensembleplanner/internal/delivery/http/controllers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/repository/postgres"
	"ensembleplanner/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title ensembleplanner API
// @version 1.0
// @description Musical event coordination: events, invitations, participations, chat, and contracts.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)
	responseStore := postgres.NewResponseStore(db)
	chatRepo := postgres.NewChatRepository(db)
	contractRepo := postgres.NewContractRepository(db)

	// Adapters
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	notifier := email.NewInvitationNotifier(email.Config{
		Provider:        cfg.Mailer.Provider,
		FromAddress:     cfg.Mailer.FromAddress,
		FromName:        cfg.Mailer.FromName,
		Region:          cfg.Mailer.Region,
		AccessKeyID:     cfg.Mailer.AccessKeyID,
		SecretAccessKey: cfg.Mailer.SecretAccessKey,
	}, email.StaticDirectory(cfg.Mailer.Directory), logger)

	// Services
	eventService := services.NewEventService(eventRepo, invitationRepo, participationRepo, logger, serviceTimeout)
	invitationService := services.NewInvitationService(eventRepo, invitationRepo, participationRepo, responseStore, notifier, logger, serviceTimeout)
	accessService := services.NewAccessService(eventRepo, invitationRepo, participationRepo, logger, serviceTimeout)
	chatService := services.NewChatService(accessService, chatRepo, serviceTimeout)
	contractService := services.NewContractService(eventRepo, accessService, contractRepo, logger, serviceTimeout)

	// Background archival sweep
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	archiver := services.NewArchiver(eventRepo, logger, cfg.SweepInterval)
	go archiver.Run(ctx)

	// Controllers and router
	eventController := controllers.NewEventController(logger, eventService, accessService)
	invitationController := controllers.NewInvitationController(logger, invitationService)
	participationController := controllers.NewParticipationController(logger, invitationService)
	chatController := controllers.NewChatController(logger, chatService)
	contractController := controllers.NewContractController(logger, contractService)

	mux := httpdelivery.NewRouter(
		eventController,
		invitationController,
		participationController,
		chatController,
		contractController,
		verifier,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "err", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
