// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// StockGaugeJob copies every stock ledger entry into the
// fulfillment_stock_available_units gauge. Its default schedule
// "*/30 * * * * *" runs every 30 seconds; the STOCK_GAUGE_SCHEDULE setting
// overrides it.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.NewStockGaugeJob(stockQueries, metrics, schedule, logger))
//	if err := jobManager.StartAll(ctx); err != nil {
//		logger.Fatal("Failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed refresh is logged and retried at the next tick. StartAll fails when
// the first refresh or the schedule itself fails.
package jobs
