package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/repository/postgres"
	applogger "github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging/redis"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
	"github.com/bloodlink/bloodlink-api/pkg/worker"
)

// envOverrides are operational knobs read from the environment so a
// deployment can tune the worker without editing config.yaml
type envOverrides struct {
	HealthPort         int `envconfig:"WORKER_HEALTH_PORT" default:"8081"`
	ExpirySweepMinutes int `envconfig:"WORKER_EXPIRY_SWEEP_MINUTES"`
	OutreachBatchSize  int `envconfig:"WORKER_OUTREACH_BATCH_SIZE"`
}

func setupHealthCheck(port int, logger *applogger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		addr := ":" + strconv.Itoa(port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Fatal(err, "Health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal().Err(err).Msg("Failed to read environment overrides")
	}
	sweepMinutes := cfg.Worker.ExpirySweepMinutes
	if env.ExpirySweepMinutes > 0 {
		sweepMinutes = env.ExpirySweepMinutes
	}
	if sweepMinutes <= 0 {
		sweepMinutes = 60
	}
	batchSize := cfg.Worker.OutreachBatchSize
	if env.OutreachBatchSize > 0 {
		batchSize = env.OutreachBatchSize
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	logger := applogger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), logger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	profileRepo := postgres.NewProfileRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	sender := email.NewService(cfg.SMTP, logger)

	m := metrics.NewMetrics("bloodlink", "worker")

	processor := worker.NewOutreachProcessor(
		profileRepo,
		broker,
		sender,
		worker.OutreachProcessorConfig{BatchSize: batchSize},
		logger,
		m,
	)
	sweeper := worker.NewExpirySweeper(
		inventoryRepo,
		time.Duration(sweepMinutes)*time.Minute,
		logger,
		m,
	)

	setupHealthCheck(env.HealthPort, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
	}()

	go sweeper.Start(ctx)
	if err := processor.Start(ctx); err != nil {
		logger.Fatal(err, "Outreach processor failed")
	}
}
