package cmd

import (
	"fmt"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/ports"

	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenStorage returns the unit of work factory of the configured backend and a
// function releasing it.
func OpenStorage(cfg Config, log *zap.Logger) (ports.UnitOfWorkFactory, func() error, error) {
	switch cfg.Storage {
	case StorageMemory:
		log.Info("Using in-memory storage")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() error { return nil }, nil

	case StoragePostgres:
		db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}

		log.Info("Using postgres storage",
			zap.String("host", cfg.DBHost),
			zap.String("database", cfg.DBName),
		)
		return postgres.NewGormUnitOfWorkFactory(db), sqlDB.Close, nil

	default:
		return nil, nil, cfg.Validate()
	}
}
