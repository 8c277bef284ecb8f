package jobs

import (
	"context"
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	stockGaugeJob *StockGaugeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(stockGaugeJob *StockGaugeJob) *JobManager {
	return &JobManager{stockGaugeJob: stockGaugeJob}
}

// StartAll fills the gauges once and starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.stockGaugeJob.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fill stock gauges: %w", err)
	}
	if err := jm.stockGaugeJob.Start(); err != nil {
		return fmt.Errorf("failed to start stock gauge job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.stockGaugeJob.Stop()
}
