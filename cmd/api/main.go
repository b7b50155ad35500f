package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/cityhealth/directory-api/internal/config"
	"github.com/cityhealth/directory-api/internal/email"
	"github.com/cityhealth/directory-api/internal/handler"
	adHandler "github.com/cityhealth/directory-api/internal/handler/ad"
	appointmentHandler "github.com/cityhealth/directory-api/internal/handler/appointment"
	authHandler "github.com/cityhealth/directory-api/internal/handler/auth"
	providerHandler "github.com/cityhealth/directory-api/internal/handler/provider"
	verificationHandler "github.com/cityhealth/directory-api/internal/handler/verification"
	"github.com/cityhealth/directory-api/internal/middleware"
	"github.com/cityhealth/directory-api/internal/repository/postgres"
	"github.com/cityhealth/directory-api/internal/router"
	adService "github.com/cityhealth/directory-api/internal/service/ad"
	appointmentService "github.com/cityhealth/directory-api/internal/service/appointment"
	authService "github.com/cityhealth/directory-api/internal/service/auth"
	providerService "github.com/cityhealth/directory-api/internal/service/provider"
	verificationService "github.com/cityhealth/directory-api/internal/service/verification"
	"github.com/cityhealth/directory-api/pkg/auth"
	"github.com/cityhealth/directory-api/pkg/logger"
	"github.com/cityhealth/directory-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	baseRepo := postgres.NewBaseRepository(db)
	providerRepo := postgres.NewProviderRepository(baseRepo)
	verificationRepo := postgres.NewVerificationRepository(baseRepo)
	appointmentRepo := postgres.NewAppointmentRepository(baseRepo)
	adRepo := postgres.NewAdRepository(baseRepo)
	userRepo := postgres.NewUserRepository(baseRepo)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	// Email delivery is optional; fall back to a no-op sender when SMTP
	// is not configured so local setups still work.
	var emailSvc email.Service
	if cfg.SMTP.Configured() {
		emailSvc = email.NewSMTPService(cfg.SMTP.ToEmailConfig())
	} else {
		emailSvc = email.NoopService{}
		appLogger.Info("SMTP not configured, email delivery disabled")
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.ToAuthConfig())
	providerSvc := providerService.NewService(providerRepo, metrics.NewDirectoryMetrics("cityhealth", "directory"))
	verificationSvc := verificationService.NewService(
		verificationRepo,
		providerRepo,
		emailSvc,
		appLogger,
		metrics.NewVerificationMetrics("cityhealth", "verification"),
	)
	appointmentSvc := appointmentService.NewService(appointmentRepo, providerRepo)
	adSvc := adService.NewService(adRepo, providerRepo)
	authSvc := authService.NewService(userRepo, jwtSvc, emailSvc, appLogger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	providerH := providerHandler.NewHandler(providerSvc, outboxRepo)
	verificationH := verificationHandler.NewHandler(verificationSvc, outboxRepo)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, outboxRepo)
	adH := adHandler.NewHandler(adSvc, outboxRepo)

	r := router.NewRouter(
		authMiddleware,
		authH,
		providerH,
		verificationH,
		appointmentH,
		adH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "cityhealth_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
