package jobs

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/stock"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultStockGaugeSchedule refreshes the gauges every 30 seconds.
const DefaultStockGaugeSchedule = "*/30 * * * * *"

const refreshTimeout = 10 * time.Second

type (
	// StockLister reads every ledger entry.
	StockLister interface {
		HandleList(ctx context.Context, query queries.ListStockQuery) ([]stock.Entry, error)
	}

	// StockGauge publishes the available quantity of every entry.
	StockGauge interface {
		SetStockLevels(entries []stock.Entry)
	}
)

// StockGaugeJob periodically copies the ledger into the stock gauges.
type StockGaugeJob struct {
	lister   StockLister
	gauge    StockGauge
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewStockGaugeJob creates the job. An empty schedule falls back to DefaultStockGaugeSchedule.
func NewStockGaugeJob(lister StockLister, gauge StockGauge, schedule string, logger *zap.Logger) *StockGaugeJob {
	if schedule == "" {
		schedule = DefaultStockGaugeSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockGaugeJob{
		lister:   lister,
		gauge:    gauge,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "stock_gauge_job")),
	}
}

// Refresh reads the ledger once and updates the gauges.
func (j *StockGaugeJob) Refresh(ctx context.Context) error {
	entries, err := j.lister.HandleList(ctx, queries.ListStockQuery{})
	if err != nil {
		return err
	}
	j.gauge.SetStockLevels(entries)
	return nil
}

// Start schedules the refresh.
func (j *StockGaugeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := j.Refresh(ctx); err != nil {
			j.logger.Error("Stock gauge refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stock gauge job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish.
func (j *StockGaugeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Stock gauge job stopped")
}
