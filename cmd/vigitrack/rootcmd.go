package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhishekpnaik05/vigitrack/internal/config"
	"github.com/abhishekpnaik05/vigitrack/internal/logger"
	"github.com/abhishekpnaik05/vigitrack/internal/migrations"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
)

var rootcmd = &cobra.Command{
	Use:   "vigitrack",
	Short: "VigiTrack fleet tracking API",
	Long: `VigiTrack serves the fleet dashboard API: device telemetry, trips, geofences,
notifications, webhooks and the assistant flows backed by a hosted model.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(name string) (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, name)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// openStore returns the storage selected by STORAGE_DRIVER and a func that
// releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Store, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	case "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(cfg.DatabaseURL, log.Named("migrate")); err != nil {
			return nil, nil, err
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to database")

	return repository.NewPostgresStore(db), func() { sqlDB.Close() }, nil
}
