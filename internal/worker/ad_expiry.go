package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cityhealth/directory-api/internal/repository"
	"github.com/cityhealth/directory-api/pkg/logger"
)

// AdExpiryWorker sweeps active ads whose window has closed and marks them
// expired so the public feed stops serving them.
type AdExpiryWorker struct {
	repo          repository.AdRepository
	sweepInterval time.Duration
	logger        *logger.Logger
}

func NewAdExpiryWorker(repo repository.AdRepository, sweepInterval time.Duration, logger *logger.Logger) *AdExpiryWorker {
	return &AdExpiryWorker{
		repo:          repo,
		sweepInterval: sweepInterval,
		logger:        logger,
	}
}

func (w *AdExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error(err, "Failed to expire ads")
			}
		}
	}
}

func (w *AdExpiryWorker) sweep(ctx context.Context) error {
	rows, err := w.repo.ExpireEnded(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to expire ended ads: %w", err)
	}
	if rows > 0 {
		w.logger.Info("Expired ads", "count", rows)
	}
	return nil
}
