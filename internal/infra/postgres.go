package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"homematch/internal/config"
)

// InitPostgresql opens the pool without pinging, so the service can start
// while the database is down and serve degraded until it comes back.
func InitPostgresql(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Warn("postgres unreachable at startup, continuing degraded", zap.Error(err))
	}

	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed")
	}
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		zap.L().Error("starting transaction", zap.Error(tx.Error))
	}
	return tx
}

// ReleaseTransaction rolls back when err is set and commits otherwise.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			zap.L().Error("rolling back transaction", zap.Error(rollbackErr), zap.NamedError("cause", err))
		}
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		zap.L().Error("committing transaction", zap.Error(commitErr))
		return commitErr
	}
	return nil
}
