package worker

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// ExpirySweeper periodically marks available inventory past its expiry date
// as expired, so stale units never surface on the dashboard.
type ExpirySweeper struct {
	repo     repository.InventoryRepository
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewExpirySweeper(repo repository.InventoryRepository, interval time.Duration, logger *logger.Logger, m *metrics.Metrics) *ExpirySweeper {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}
	return &ExpirySweeper{
		repo:     repo,
		interval: interval,
		logger:   logger.WithComponent("expiry_sweeper"),
		metrics:  m,
	}
}

func (w *ExpirySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting expiry sweeper")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down expiry sweeper")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpirySweeper) sweep(ctx context.Context) {
	marked, err := w.repo.MarkExpiredBefore(ctx, time.Now())
	if err != nil {
		w.logger.Error(err, "expiry sweep failed")
		w.metrics.WorkerErrors.WithLabelValues("expiry_sweep").Inc()
		return
	}
	if marked > 0 {
		w.logger.Info("marked expired inventory", "count", marked)
		w.metrics.ExpirySweepMarked.Add(float64(marked))
	}
}
