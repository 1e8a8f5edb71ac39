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

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/feed"
	"github.com/bloodlink/bloodlink-api/internal/handler"
	authHandler "github.com/bloodlink/bloodlink-api/internal/handler/auth"
	dashboardHandler "github.com/bloodlink/bloodlink-api/internal/handler/dashboard"
	feedHandler "github.com/bloodlink/bloodlink-api/internal/handler/feed"
	inventoryHandler "github.com/bloodlink/bloodlink-api/internal/handler/inventory"
	sosHandler "github.com/bloodlink/bloodlink-api/internal/handler/sos"
	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
	"github.com/bloodlink/bloodlink-api/internal/router"
	authService "github.com/bloodlink/bloodlink-api/internal/service/auth"
	dashboardService "github.com/bloodlink/bloodlink-api/internal/service/dashboard"
	"github.com/bloodlink/bloodlink-api/internal/service/outreach"
	sosService "github.com/bloodlink/bloodlink-api/internal/service/sos"
	applogger "github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging/redis"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
	"github.com/bloodlink/bloodlink-api/pkg/security"
	"github.com/bloodlink/bloodlink-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := applogger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis message broker
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), logger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)
	sosRepo := postgres.NewSOSRequestRepository(db)
	responseRepo := postgres.NewSOSResponseRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)

	// Initialize services
	m := metrics.NewMetrics("bloodlink", "api")
	authSvc := authService.NewService(profileRepo, security.NewBcryptHasher(0), cfg.JWT)
	sosSvc := sosService.NewService(sosRepo, responseRepo, broker, logger, m)
	dashboardSvc := dashboardService.NewService(profileRepo, sosRepo, inventoryRepo, logger, cfg.Dashboard.ResponsesLastMonth)

	// Initialize the notification feed
	planner := outreach.NewBrokerPlanner(broker)
	feedCtrl := feed.NewController(notificationRepo, broker, planner, planner, logger, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := feedCtrl.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load notification feed")
	}
	if err := feedCtrl.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start feed subscription")
	}
	defer feedCtrl.Close()

	// Install domain enum validations for request binding
	if err := validator.RegisterDomainValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler()

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		sosHandler.NewHandler(sosSvc),
		feedHandler.NewHandler(feedCtrl, notificationRepo, broker, logger),
		inventoryHandler.NewHandler(inventoryRepo),
		dashboardHandler.NewHandler(dashboardSvc),
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "bloodlink_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
